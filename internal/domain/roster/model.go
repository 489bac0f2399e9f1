package roster

import (
	"fmt"
	"time"
)

// Assignment binds a player to a club within an ownership scope.
// At most one active assignment exists per (ScopeID, PlayerID).
type Assignment struct {
	ID            string
	ScopeID       string
	LeagueID      string
	PlayerID      string
	ClubID        string
	AcquiredValue int64
	Wage          int64
	Active        bool
	AcquiredAt    time.Time
	ReleasedAt    *time.Time
}

func (a Assignment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("assignment id is required")
	}
	if a.ScopeID == "" || a.LeagueID == "" {
		return fmt.Errorf("assignment scope and league are required")
	}
	if a.PlayerID == "" || a.ClubID == "" {
		return fmt.Errorf("assignment player and club are required")
	}
	if a.AcquiredValue < 0 || a.Wage < 0 {
		return fmt.Errorf("assignment value and wage must not be negative")
	}
	return nil
}

// Transfer returns the assignment that replaces a when the player moves to clubID.
func (a Assignment) Transfer(newID, leagueID, clubID string, value int64, at time.Time) Assignment {
	return Assignment{
		ID:            newID,
		ScopeID:       a.ScopeID,
		LeagueID:      leagueID,
		PlayerID:      a.PlayerID,
		ClubID:        clubID,
		AcquiredValue: value,
		Wage:          a.Wage,
		Active:        true,
		AcquiredAt:    at,
	}
}
