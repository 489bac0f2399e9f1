package payroll

import (
	"fmt"
	"time"
)

// Batch records that a club paid wages for one league round.
// (LeagueID, Round, ClubID) is unique.
type Batch struct {
	LeagueID  string
	Round     int
	ClubID    string
	TotalWage int64
	CreatedAt time.Time
}

func (b Batch) Validate() error {
	if b.LeagueID == "" || b.ClubID == "" {
		return fmt.Errorf("batch league and club are required")
	}
	if b.Round < 1 {
		return fmt.Errorf("batch round must be >= 1")
	}
	if b.TotalWage < 0 {
		return fmt.Errorf("batch total wage must not be negative")
	}
	return nil
}
