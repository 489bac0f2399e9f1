package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/career-league/internal/infrastructure/lock"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/usecase"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	mu     sync.Mutex
	calls  int
	limits []int
	err    error
}

func (s *countingSweeper) SweepExpired(_ context.Context, limit int) (usecase.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.limits = append(s.limits, limit)
	return usecase.SweepResult{}, s.err
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubLocker struct {
	lease *lock.Lease
	err   error
	keys  []string
}

func (l *stubLocker) TryAcquire(_ context.Context, key string, _ time.Duration) (*lock.Lease, error) {
	l.keys = append(l.keys, key)
	return l.lease, l.err
}

func TestSweeperTick_WithoutLocker(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewSweeper(sweeper, nil, SweeperConfig{Batch: 50}, logging.NewNop())

	require.True(t, s.Tick(context.Background()))
	require.Equal(t, []int{50}, sweeper.limits)
}

func TestSweeperTick_SkipsWhenLeaseHeldElsewhere(t *testing.T) {
	sweeper := &countingSweeper{}
	locker := &stubLocker{}
	s := NewSweeper(sweeper, locker, SweeperConfig{}, logging.NewNop())

	require.False(t, s.Tick(context.Background()))
	require.Zero(t, sweeper.count())
	require.Equal(t, []string{sweepLockKey}, locker.keys)
}

func TestSweeperTick_SkipsWhenLockErrors(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewSweeper(sweeper, &stubLocker{err: errors.New("redis down")}, SweeperConfig{}, logging.NewNop())

	require.False(t, s.Tick(context.Background()))
	require.Zero(t, sweeper.count())
}

func TestSweeperTick_SweepErrorStillCountsAsRun(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db unavailable")}
	s := NewSweeper(sweeper, nil, SweeperConfig{}, logging.NewNop())

	require.True(t, s.Tick(context.Background()))
	require.Equal(t, 1, sweeper.count())
}

func TestSweeperRun_StopsOnCancel(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewSweeper(sweeper, nil, SweeperConfig{Interval: 5 * time.Millisecond}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sweeper.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}
