package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestPQErrorClassification(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected wrapped 23505 to be a unique violation")
		}
		if isRetryable(err) {
			t.Fatalf("unique violation must not be retried")
		}
	})

	t.Run("serialization failure and deadlock retry", func(t *testing.T) {
		for _, code := range []pq.ErrorCode{"40001", "40P01"} {
			if !isRetryable(&pq.Error{Code: code}) {
				t.Fatalf("expected %s to be retryable", code)
			}
		}
	})

	t.Run("ignores non pq errors", func(t *testing.T) {
		if isRetryable(sql.ErrConnDone) || isUniqueViolation(sql.ErrConnDone) {
			t.Fatalf("expected plain error to be unclassified")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get wallet: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(sql.ErrTxDone) {
		t.Fatalf("expected ErrTxDone to be a real error")
	}
}

func TestNullableConversions(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("empty string must map to NULL")
	}
	if got := nullString("club-a"); !got.Valid || got.String != "club-a" {
		t.Fatalf("unexpected null string: %+v", got)
	}

	if nullTime(nil).Valid {
		t.Fatalf("nil time must map to NULL")
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	back := timePtr(nullTime(&at))
	if back == nil || !back.Equal(at) || back.Location() != time.UTC {
		t.Fatalf("unexpected round trip: %v", back)
	}
	if timePtr(sql.NullTime{}) != nil {
		t.Fatalf("invalid null time must map to nil")
	}
}
