package auction

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusFinalizing Status = "finalizing"
	StatusFinalized  Status = "finalized"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusOpen:       {StatusFinalizing, StatusCancelled},
	StatusFinalizing: {StatusFinalized, StatusCancelled},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Active statuses block a second auction for the same player.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusFinalizing
}

func (s Status) Terminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

// Item is a timed auction for a free-agent player.
type Item struct {
	ID            string
	LeagueID      string
	ScopeID       string
	PlayerID      string
	StartingValue int64
	CurrentValue  int64
	LeadingClubID string
	ExpiresAt     time.Time
	Status        Status
	CancelReason  string
	FinalizedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Bid is an append-only bid entry.
type Bid struct {
	ID                string
	AuctionItemID     string
	ScopeID           string
	PlayerID          string
	ClubID            string
	Value             int64
	ExpiresAtSnapshot time.Time
	CreatedAt         time.Time
}

func (i Item) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// PlaceBid validates and applies a bid in memory. When the bid lands inside
// the anti-snipe window the expiry moves forward by one window.
func (i *Item) PlaceBid(clubID string, value int64, now time.Time, antiSnipe time.Duration) (extended bool, err error) {
	if i.Status != StatusOpen || i.Expired(now) {
		return false, errors.Wrapf(economy.ErrAuctionClosed, "auction=%s status=%s expires_at=%s", i.ID, i.Status, i.ExpiresAt.Format(time.RFC3339))
	}
	if value <= i.CurrentValue {
		return false, errors.Wrapf(economy.ErrBidTooLow, "bid=%d current=%d", value, i.CurrentValue)
	}

	i.CurrentValue = value
	i.LeadingClubID = clubID
	i.UpdatedAt = now
	if antiSnipe > 0 && i.ExpiresAt.Sub(now) <= antiSnipe {
		i.ExpiresAt = i.ExpiresAt.Add(antiSnipe)
		extended = true
	}
	return extended, nil
}

func (i *Item) transition(to Status, now time.Time) error {
	if !CanTransition(i.Status, to) {
		return errors.Wrapf(economy.ErrAuctionClosed, "auction=%s cannot move %s -> %s", i.ID, i.Status, to)
	}
	i.Status = to
	i.UpdatedAt = now
	return nil
}

func (i *Item) BeginFinalizing(now time.Time) error {
	return i.transition(StatusFinalizing, now)
}

func (i *Item) Finalize(now time.Time) error {
	if err := i.transition(StatusFinalized, now); err != nil {
		return err
	}
	at := now
	i.FinalizedAt = &at
	return nil
}

func (i *Item) Cancel(reason string, now time.Time) error {
	if err := i.transition(StatusCancelled, now); err != nil {
		return err
	}
	i.CancelReason = reason
	return nil
}

func (i Item) Validate() error {
	if i.ID == "" || i.LeagueID == "" || i.ScopeID == "" || i.PlayerID == "" {
		return fmt.Errorf("auction id, league, scope and player are required")
	}
	if i.StartingValue < 0 {
		return fmt.Errorf("auction starting value must not be negative")
	}
	if i.CurrentValue < i.StartingValue {
		return fmt.Errorf("auction current value must be >= starting value")
	}
	if i.ExpiresAt.IsZero() {
		return fmt.Errorf("auction expiry is required")
	}
	return nil
}
