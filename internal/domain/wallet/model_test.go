package wallet

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name          string
		balance       int64
		delta         int64
		allowNegative bool
		want          int64
		wantErr       error
	}{
		{name: "debit within balance", balance: 1000, delta: -200, want: 800},
		{name: "debit to exactly zero", balance: 200, delta: -200, want: 0},
		{name: "credit", balance: 100, delta: 250, want: 350},
		{name: "overdraft blocked", balance: 100, delta: -101, want: 100, wantErr: economy.ErrInsufficientFunds},
		{name: "overdraft allowed", balance: 100, delta: -150, allowNegative: true, want: -50},
		{name: "credit while negative", balance: -50, delta: 20, allowNegative: true, want: -30},
		{name: "zero delta on negative balance blocked", balance: -30, delta: 0, want: -30, wantErr: economy.ErrInsufficientFunds},
		{name: "zero delta on negative balance allowed", balance: -30, delta: 0, allowNegative: true, want: -30},
		{name: "credit overflow", balance: math.MaxInt64 - 10, delta: 11, allowNegative: true, want: math.MaxInt64 - 10, wantErr: economy.ErrValidation},
		{name: "debit overflow", balance: math.MinInt64 + 10, delta: -11, allowNegative: true, want: math.MinInt64 + 10, wantErr: economy.ErrValidation},
		{name: "credit to max", balance: math.MaxInt64 - 10, delta: 10, allowNegative: true, want: math.MaxInt64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.balance, tc.delta, tc.allowNegative)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Apply()=%d want %d", got, tc.want)
			}
		})
	}
}
