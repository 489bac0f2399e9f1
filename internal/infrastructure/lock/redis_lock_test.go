package lock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RedisLock, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client)
	l.newToken = func() string { return "token-1" }
	return l, mock
}

func TestRedisLock_TryAcquireAndRelease(t *testing.T) {
	l, mock := newTestLock(t)
	ctx := context.Background()

	mock.ExpectSetNX("lock:auction-sweep", "token-1", 30*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"lock:auction-sweep"}, "token-1").SetVal(int64(1))

	lease, err := l.TryAcquire(ctx, "auction-sweep", 30*time.Second)
	require.NoError(t, err)
	require.NotNil(t, lease)

	released, err := lease.Release(ctx)
	require.NoError(t, err)
	require.True(t, released)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLock_TryAcquire_HeldElsewhere(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX("lock:auction-sweep", "token-1", 30*time.Second).SetVal(false)

	lease, err := l.TryAcquire(context.Background(), "auction-sweep", 30*time.Second)
	require.NoError(t, err)
	require.Nil(t, lease)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLock_Release_ExpiredLease(t *testing.T) {
	l, mock := newTestLock(t)
	ctx := context.Background()

	mock.ExpectSetNX("lock:auction-sweep", "token-1", time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"lock:auction-sweep"}, "token-1").SetVal(int64(0))

	lease, err := l.TryAcquire(ctx, "auction-sweep", time.Second)
	require.NoError(t, err)

	released, err := lease.Release(ctx)
	require.NoError(t, err)
	require.False(t, released)
}

func TestRedisLock_TryAcquire_RedisError(t *testing.T) {
	l, mock := newTestLock(t)

	mock.ExpectSetNX("lock:auction-sweep", "token-1", time.Second).SetErr(context.DeadlineExceeded)

	_, err := l.TryAcquire(context.Background(), "auction-sweep", time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLock_TryAcquire_ValidatesInput(t *testing.T) {
	l, _ := newTestLock(t)
	_, err := l.TryAcquire(context.Background(), "", time.Second)
	require.Error(t, err)
	_, err = l.TryAcquire(context.Background(), "auction-sweep", 0)
	require.Error(t, err)
}
