package league

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLeague_ScopeID(t *testing.T) {
	standalone := League{ID: "lg-1"}
	if got := standalone.ScopeID(); got != "lg-1" {
		t.Fatalf("expected league scope, got %q", got)
	}

	member := League{ID: "lg-2", ConfederationID: "conf-eu"}
	if got := member.ScopeID(); got != "conf-eu" {
		t.Fatalf("expected confederation scope, got %q", got)
	}
}

func TestEconomySettings_FineAmount(t *testing.T) {
	tests := []struct {
		multiplier string
		value      int64
		want       int64
	}{
		{multiplier: "2.0", value: 1000, want: 2000},
		{multiplier: "1.5", value: 333, want: 500},
		{multiplier: "0.25", value: 10, want: 3},
		{multiplier: "0", value: 900, want: 0},
	}

	for _, tc := range tests {
		s := EconomySettings{FineMultiplier: decimal.RequireFromString(tc.multiplier)}
		if got := s.FineAmount(tc.value); got != tc.want {
			t.Fatalf("FineAmount(%d) with %s = %d, want %d", tc.value, tc.multiplier, got, tc.want)
		}
	}
}

func TestEconomySettings_MeetsMinimumSale(t *testing.T) {
	s := EconomySettings{MinSalePercent: 75}
	if !s.MeetsMinimumSale(750, 1000) {
		t.Fatalf("750 should meet 75%% of 1000")
	}
	if s.MeetsMinimumSale(749, 1000) {
		t.Fatalf("749 should not meet 75%% of 1000")
	}
	if !s.MeetsMinimumSale(math.MaxInt64, math.MaxInt64) {
		t.Fatalf("max price should meet 75%% of max value")
	}
	if s.MeetsMinimumSale(math.MaxInt64/2, math.MaxInt64) {
		t.Fatalf("half of max should not meet 75%% of max value")
	}
}

func TestLeague_Validate(t *testing.T) {
	valid := League{
		ID:   "lg-1",
		Name: "Serie Career",
		Economy: EconomySettings{
			RosterCap:       25,
			StartingBalance: 1000,
			FineMultiplier:  decimal.NewFromInt(2),
			MinSalePercent:  50,
			AntiSnipeWindow: time.Minute,
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid league, got %v", err)
	}

	invalid := valid
	invalid.Economy.RosterCap = 0
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected error for zero roster cap")
	}
}
