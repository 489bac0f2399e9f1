package transfer

import (
	"fmt"
	"time"
)

// Type is the closed set of ledger record kinds.
type Type string

const (
	TypeFreeSigning Type = "free_signing"
	TypeSale        Type = "sale"
	TypeFine        Type = "fine"
	TypeTrade       Type = "trade"
)

func ParseType(v string) (Type, error) {
	switch t := Type(v); t {
	case TypeFreeSigning, TypeSale, TypeFine, TypeTrade:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transfer type %q", v)
	}
}

// Record is an immutable ledger entry. Amount is paid by the destination club
// to the origin club; an empty OriginClubID means the free-agent pool.
// LeagueID is the destination club's league. OriginLeagueID differs from it
// only when a fine crosses leagues of one confederation.
type Record struct {
	ID                string
	LeagueID          string
	ScopeID           string
	PlayerID          string
	OriginLeagueID    string
	OriginClubID      string
	DestinationClubID string
	Type              Type
	Amount            int64
	CorrelationID     string
	Note              string
	CreatedAt         time.Time
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if r.LeagueID == "" || r.ScopeID == "" || r.PlayerID == "" {
		return fmt.Errorf("record league, scope and player are required")
	}
	if r.DestinationClubID == "" {
		return fmt.Errorf("record destination club is required")
	}
	if r.Amount < 0 {
		return fmt.Errorf("record amount must not be negative")
	}
	if _, err := ParseType(string(r.Type)); err != nil {
		return err
	}
	if r.Type == TypeFreeSigning && r.OriginClubID != "" {
		return fmt.Errorf("free signing must not have an origin club")
	}
	if r.Type != TypeFreeSigning && (r.OriginClubID == "" || r.OriginLeagueID == "") {
		return fmt.Errorf("%s record requires an origin club and league", r.Type)
	}
	if r.Type == TypeTrade && r.CorrelationID == "" {
		return fmt.Errorf("trade record requires a correlation id")
	}
	return nil
}

// NetFor is the signed balance effect of the record on the club's wallet.
func (r Record) NetFor(leagueID, clubID string) int64 {
	var net int64
	if r.OriginClubID == clubID && r.OriginLeagueID == leagueID {
		net += r.Amount
	}
	if r.DestinationClubID == clubID && r.LeagueID == leagueID {
		net -= r.Amount
	}
	return net
}

// Matches reports whether the record passes filter, ignoring Limit. With both
// LeagueID and ClubID set, the league must belong to the same side as the club.
func (r Record) Matches(filter Filter) bool {
	switch {
	case filter.LeagueID != "" && filter.ClubID != "":
		destination := r.LeagueID == filter.LeagueID && r.DestinationClubID == filter.ClubID
		origin := r.OriginLeagueID == filter.LeagueID && r.OriginClubID == filter.ClubID
		if !destination && !origin {
			return false
		}
	case filter.LeagueID != "":
		if r.LeagueID != filter.LeagueID && r.OriginLeagueID != filter.LeagueID {
			return false
		}
	case filter.ClubID != "":
		if r.OriginClubID != filter.ClubID && r.DestinationClubID != filter.ClubID {
			return false
		}
	}
	return filter.PlayerID == "" || r.PlayerID == filter.PlayerID
}

// Filter narrows ledger listings. Zero values are ignored.
type Filter struct {
	LeagueID string
	ClubID   string
	PlayerID string
	Limit    int
}
