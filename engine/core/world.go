package core

import "fmt"

// World holds the whole game state: units, buildings, selection and economy
type World struct {
	Units     []*Unit
	Buildings []*Building
	Selected  []string // selected unit IDs, in selection order
	Resources int
	Speed     float64 // game speed multiplier
	Paused    bool
	GridSize  int
	TickCount uint64

	Bus *EventBus

	systems []System
	nextID  map[string]int
}

// System processes the world each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// NewWorld creates an empty world on a square grid
func NewWorld(gridSize, resources int) *World {
	return &World{
		Resources: resources,
		Speed:     1,
		GridSize:  gridSize,
		Bus:       NewEventBus(),
		nextID:    make(map[string]int),
	}
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Tick runs all systems once, then removes units that died during the tick
func (w *World) Tick(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	w.removeDead()
	w.TickCount++
}

func (w *World) removeDead() {
	alive := w.Units[:0]
	var dead []*Unit
	for _, u := range w.Units {
		if u.Health > 0 {
			alive = append(alive, u)
			continue
		}
		dead = append(dead, u)
	}
	for i := len(alive); i < len(w.Units); i++ {
		w.Units[i] = nil
	}
	w.Units = alive
	if len(dead) == 0 {
		return
	}

	gone := make(map[string]bool, len(dead))
	for _, u := range dead {
		gone[u.ID] = true
		w.EmitTeam(EvtUnitDestroyed, u.Team, u.ID, string(u.Type))
	}
	for _, u := range w.Units {
		if gone[u.TargetID] {
			u.TargetID = ""
		}
	}
	sel := w.Selected[:0]
	for _, id := range w.Selected {
		if !gone[id] {
			sel = append(sel, id)
		}
	}
	w.Selected = sel
}

// Emit queues an event stamped with the current tick
func (w *World) Emit(t EventType, subject, detail string) {
	if w.Bus == nil {
		return
	}
	w.Bus.Emit(Event{Type: t, Tick: w.TickCount, Subject: subject, Detail: detail})
}

// EmitTeam queues an event about an entity owned by team
func (w *World) EmitTeam(t EventType, team Team, subject, detail string) {
	if w.Bus == nil {
		return
	}
	w.Bus.Emit(Event{Type: t, Tick: w.TickCount, Team: team, Subject: subject, Detail: detail})
}

// NewID returns an unused identifier of the form <team>-<kind>-<n>
func (w *World) NewID(team Team, kind string) string {
	key := string(team) + "-" + kind
	for {
		w.nextID[key]++
		id := fmt.Sprintf("%s-%d", key, w.nextID[key])
		if w.UnitByID(id) == nil && w.BuildingByID(id) == nil {
			return id
		}
	}
}

// AddUnit appends a unit
func (w *World) AddUnit(u *Unit) {
	w.Units = append(w.Units, u)
}

// AddBuilding appends a building
func (w *World) AddBuilding(b *Building) {
	w.Buildings = append(w.Buildings, b)
}

// UnitByID returns the unit with the given ID, or nil
func (w *World) UnitByID(id string) *Unit {
	for _, u := range w.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// BuildingByID returns the building with the given ID, or nil
func (w *World) BuildingByID(id string) *Building {
	for _, b := range w.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Base returns the first base owned by team, or nil
func (w *World) Base(team Team) *Building {
	for _, b := range w.Buildings {
		if b.Team == team && b.Type == BuildingBase {
			return b
		}
	}
	return nil
}

// LivingUnits returns the team's units with health above zero
func (w *World) LivingUnits(team Team) []*Unit {
	var out []*Unit
	for _, u := range w.Units {
		if u.Team == team && u.Health > 0 {
			out = append(out, u)
		}
	}
	return out
}

// CountBuildings returns how many buildings team owns
func (w *World) CountBuildings(team Team) int {
	n := 0
	for _, b := range w.Buildings {
		if b.Team == team {
			n++
		}
	}
	return n
}

// InBounds checks if a position lies on the grid
func (w *World) InBounds(p Position) bool {
	max := float64(w.GridSize)
	return p.X >= 0 && p.Y >= 0 && p.X < max && p.Y < max
}

// Spend deducts cost from resources, refusing to go negative
func (w *World) Spend(cost int) error {
	if cost > w.Resources {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientResources, cost, w.Resources)
	}
	w.Resources -= cost
	if cost > 0 && w.Bus != nil {
		w.Bus.Emit(Event{Type: EvtResourcesSpent, Tick: w.TickCount, Team: TeamPlayer, Amount: float64(cost)})
	}
	return nil
}

// SetSelection replaces the selection and syncs every unit's Selected flag
func (w *World) SetSelection(ids []string) {
	w.Selected = ids
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	for _, u := range w.Units {
		u.Selected = in[u.ID]
	}
	w.Emit(EvtSelectionChanged, "", fmt.Sprintf("%d", len(ids)))
}

// IsSelected reports whether a unit ID is in the selection
func (w *World) IsSelected(id string) bool {
	for _, s := range w.Selected {
		if s == id {
			return true
		}
	}
	return false
}
