package core

import (
	"fmt"
	"math"
)

// ---- Position ----

// Position represents a grid position (tile coords, fractional while moving)
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Offset returns the position shifted by (dx, dy)
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// ---- Unit & Building kinds ----

// UnitType identifies a unit class
type UnitType string

const (
	UnitInfantry UnitType = "infantry"
	UnitTank     UnitType = "tank"
	UnitAircraft UnitType = "aircraft"
)

// UnitTypes lists every unit class in panel order
var UnitTypes = []UnitType{UnitInfantry, UnitTank, UnitAircraft}

// ParseUnitType validates a unit type name
func ParseUnitType(s string) (UnitType, error) {
	for _, t := range UnitTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnitType, s)
}

// BuildingType identifies a structure class
type BuildingType string

const (
	BuildingBase     BuildingType = "base"
	BuildingBarracks BuildingType = "barracks"
	BuildingFactory  BuildingType = "factory"
	BuildingAirfield BuildingType = "airfield"
)

// BuildingTypes lists every structure class, base first
var BuildingTypes = []BuildingType{BuildingBase, BuildingBarracks, BuildingFactory, BuildingAirfield}

// ParseBuildingType validates a building type name
func ParseBuildingType(s string) (BuildingType, error) {
	for _, t := range BuildingTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBuildingType, s)
}

// ---- Unit ----

// Unit is a mobile combatant
type Unit struct {
	ID        string    `json:"id"`
	Type      UnitType  `json:"type"`
	Team      Team      `json:"team"`
	Position  Position  `json:"position"`
	Health    float64   `json:"health"`
	MaxHealth float64   `json:"maxHealth"`
	Damage    float64   `json:"damage"`
	Range     float64   `json:"range"`
	Speed     float64   `json:"speed"` // tiles per tick at move_step 1
	Selected  bool      `json:"isSelected"`
	TargetID  string    `json:"targetId,omitempty"`
	MoveTo    *Position `json:"moveTo,omitempty"` // pending player move order
}

// Alive reports whether the unit still has health
func (u *Unit) Alive() bool { return u.Health > 0 }

// HealthRatio returns current/max health in [0,1]
func (u *Unit) HealthRatio() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return u.Health / u.MaxHealth
}

// InRange reports whether pos lies within weapon range
func (u *Unit) InRange(pos Position) bool {
	return u.Position.DistanceTo(pos) <= u.Range
}

// ---- Building ----

// Building is a structure; it never moves and is never removed
type Building struct {
	ID           string       `json:"id"`
	Type         BuildingType `json:"type"`
	Team         Team         `json:"team"`
	Position     Position     `json:"position"`
	Health       float64      `json:"health"`
	MaxHealth    float64      `json:"maxHealth"`
	Cost         int          `json:"cost"`
	Constructing bool         `json:"isConstructing"`
	Progress     float64      `json:"constructionProgress"` // percent, 0-100
}

// Complete reports whether construction has finished
func (b *Building) Complete() bool {
	return !b.Constructing && b.Progress >= 100
}
