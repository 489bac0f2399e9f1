package player

import "fmt"

// Position represents football position categories shown in the catalog.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is a catalog entry. Value and Wage are in the smallest currency unit.
type Player struct {
	ID       string
	Name     string
	Position Position
	Value    int64
	Wage     int64
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Value < 0 {
		return fmt.Errorf("player value must not be negative")
	}
	if p.Wage < 0 {
		return fmt.Errorf("player wage must not be negative")
	}

	return nil
}
