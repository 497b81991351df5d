package systems

import (
	"fmt"
	"math/rand"

	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
)

// ---- Production ----

// SpawnUnit trains a player unit next to the player base
func SpawnUnit(w *core.World, bal *config.Balance, t core.UnitType) (*core.Unit, error) {
	def, err := bal.Unit(t)
	if err != nil {
		return nil, err
	}
	base := w.Base(core.TeamPlayer)
	if base == nil {
		return nil, core.ErrNoBase
	}
	if err := w.Spend(def.Cost); err != nil {
		return nil, err
	}
	u := NewUnit(w, core.TeamPlayer, t, def, base.Position.Offset(2, 0))
	return u, nil
}

// NewUnit places a unit with catalog stats. It does not charge resources.
func NewUnit(w *core.World, team core.Team, t core.UnitType, def config.UnitDef, pos core.Position) *core.Unit {
	u := &core.Unit{
		ID:        w.NewID(team, "unit"),
		Type:      t,
		Team:      team,
		Position:  pos,
		Health:    def.Health,
		MaxHealth: def.Health,
		Damage:    def.Damage,
		Range:     def.Range,
		Speed:     def.Speed,
	}
	w.AddUnit(u)
	w.EmitTeam(core.EvtUnitSpawned, team, u.ID, fmt.Sprintf("%s at %s", t, pos))
	return u
}

// BuildStructure places a building beside the player base, shifted by a random
// row offset in {-1, 0, 1}
func BuildStructure(w *core.World, bal *config.Balance, t core.BuildingType, rng *rand.Rand) (*core.Building, error) {
	if _, err := buildable(bal, t); err != nil {
		return nil, err
	}
	base := w.Base(core.TeamPlayer)
	if base == nil {
		return nil, core.ErrNoBase
	}
	offset := float64(rng.Intn(3) - 1)
	return BuildStructureAt(w, bal, t, base.Position.Offset(2, offset))
}

// BuildStructureAt places a building at an explicit grid position
func BuildStructureAt(w *core.World, bal *config.Balance, t core.BuildingType, pos core.Position) (*core.Building, error) {
	def, err := buildable(bal, t)
	if err != nil {
		return nil, err
	}
	if w.Base(core.TeamPlayer) == nil {
		return nil, core.ErrNoBase
	}
	if !w.InBounds(pos) {
		return nil, fmt.Errorf("%w: %s", core.ErrOutOfBounds, pos)
	}
	if err := w.Spend(def.Cost); err != nil {
		return nil, err
	}
	b := &core.Building{
		ID:           w.NewID(core.TeamPlayer, "building"),
		Type:         t,
		Team:         core.TeamPlayer,
		Position:     pos,
		Health:       def.Health,
		MaxHealth:    def.Health,
		Cost:         def.Cost,
		Constructing: true,
	}
	w.AddBuilding(b)
	w.EmitTeam(core.EvtBuildingPlaced, core.TeamPlayer, b.ID, fmt.Sprintf("%s at %s", t, pos))
	return b, nil
}

func buildable(bal *config.Balance, t core.BuildingType) (config.BuildingDef, error) {
	def, err := bal.Building(t)
	if err != nil {
		return def, err
	}
	if !def.Buildable {
		return def, fmt.Errorf("%w: %q", core.ErrNotBuildable, t)
	}
	return def, nil
}

// NewBuilding places a finished building, used for scenario setup. A team's
// first base is named "<team>-base".
func NewBuilding(w *core.World, team core.Team, t core.BuildingType, def config.BuildingDef, pos core.Position) *core.Building {
	var id string
	if t == core.BuildingBase && w.Base(team) == nil {
		id = string(team) + "-base"
	} else {
		id = w.NewID(team, "building")
	}
	b := &core.Building{
		ID:        id,
		Type:      t,
		Team:      team,
		Position:  pos,
		Health:    def.Health,
		MaxHealth: def.Health,
		Cost:      def.Cost,
		Progress:  100,
	}
	w.AddBuilding(b)
	return b
}

// ---- Selection & orders ----

// SelectUnit selects a player unit. Additive selection toggles membership,
// otherwise the selection becomes just this unit.
func SelectUnit(w *core.World, id string, additive bool) error {
	u := w.UnitByID(id)
	if u == nil || u.Team != core.TeamPlayer {
		return fmt.Errorf("%w: %q", core.ErrUnknownUnit, id)
	}
	if !additive {
		w.SetSelection([]string{id})
		return nil
	}
	next := make([]string, 0, len(w.Selected)+1)
	found := false
	for _, s := range w.Selected {
		if s == id {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, id)
	}
	w.SetSelection(next)
	return nil
}

// ClearSelection deselects every unit
func ClearSelection(w *core.World) {
	w.SetSelection(nil)
}

// MoveSelected orders every selected unit to pos
func MoveSelected(w *core.World, pos core.Position) error {
	if len(w.Selected) == 0 {
		return core.ErrNoSelection
	}
	if !w.InBounds(pos) {
		return fmt.Errorf("%w: %s", core.ErrOutOfBounds, pos)
	}
	for _, id := range w.Selected {
		u := w.UnitByID(id)
		if u == nil {
			continue
		}
		dest := pos
		u.MoveTo = &dest
		w.Emit(core.EvtMoveOrdered, u.ID, pos.String())
	}
	return nil
}

// ---- Game flow ----

// TogglePause flips the paused flag
func TogglePause(w *core.World) {
	w.Paused = !w.Paused
	w.Emit(core.EvtPauseToggled, "", fmt.Sprintf("%t", w.Paused))
}

// SetSpeed changes the speed multiplier to one of the configured speeds
func SetSpeed(w *core.World, bal *config.Balance, speed float64) error {
	if !bal.AllowsSpeed(speed) {
		return fmt.Errorf("%w: %v (allowed %v)", core.ErrInvalidSpeed, speed, bal.Speeds)
	}
	if w.Speed != speed {
		w.Speed = speed
		w.Emit(core.EvtSpeedChanged, "", fmt.Sprintf("%g", speed))
	}
	return nil
}
