package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1siamBot/tactical-command/engine/ai"
	"github.com/1siamBot/tactical-command/engine/core"
)

// State is a deep copy of the world, safe to hand to other goroutines or to
// encode as JSON
type State struct {
	Tick          uint64          `json:"tick"`
	Units         []core.Unit     `json:"units"`
	Buildings     []core.Building `json:"buildings"`
	SelectedUnits []string        `json:"selectedUnits"`
	Resources     int             `json:"resources"`
	GameSpeed     float64         `json:"gameSpeed"`
	IsPaused      bool            `json:"isPaused"`
	GridSize      int             `json:"gridSize"`
}

// Snapshot copies the current world
func (s *Session) Snapshot() State {
	w := s.World
	st := State{
		Tick:          w.TickCount,
		Units:         make([]core.Unit, 0, len(w.Units)),
		Buildings:     make([]core.Building, 0, len(w.Buildings)),
		SelectedUnits: append([]string{}, w.Selected...),
		Resources:     w.Resources,
		GameSpeed:     w.Speed,
		IsPaused:      w.Paused,
		GridSize:      w.GridSize,
	}
	for _, u := range w.Units {
		c := *u
		if u.MoveTo != nil {
			dest := *u.MoveTo
			c.MoveTo = &dest
		}
		st.Units = append(st.Units, c)
	}
	for _, b := range w.Buildings {
		st.Buildings = append(st.Buildings, *b)
	}
	return st
}

// Stats accumulates match totals from the event stream
type Stats struct {
	Spawned        map[core.Team]int
	Destroyed      map[core.Team]int
	DamageTaken    map[core.Team]float64
	Completed      int // buildings finished
	Reinforcements int // waves
	Commands       int
	Rejected       int
}

func (st *Stats) reset() {
	*st = Stats{
		Spawned:     make(map[core.Team]int),
		Destroyed:   make(map[core.Team]int),
		DamageTaken: make(map[core.Team]float64),
	}
}

func (st *Stats) observe(e core.Event) {
	if st.Spawned == nil {
		st.reset()
	}
	switch e.Type {
	case core.EvtUnitSpawned:
		st.Spawned[e.Team]++
	case core.EvtUnitDestroyed:
		st.Destroyed[e.Team]++
	case core.EvtUnitDamaged:
		st.DamageTaken[e.Team] += e.Amount
	case core.EvtBuildingComplete:
		st.Completed++
	case core.EvtReinforcements:
		st.Reinforcements++
	}
}

// Stats returns a copy of the match totals
func (s *Session) Stats() Stats {
	out := s.stats
	out.Spawned = copyMap(s.stats.Spawned)
	out.Destroyed = copyMap(s.stats.Destroyed)
	out.DamageTaken = copyMap(s.stats.DamageTaken)
	return out
}

func copyMap[V int | float64](m map[core.Team]V) map[core.Team]V {
	out := make(map[core.Team]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Report renders a plain-text summary of the match
func (s *Session) Report() string {
	w := s.World
	var b strings.Builder

	state := "running"
	if w.Paused {
		state = "paused"
	}
	elapsed := float64(w.TickCount) * s.Balance.TickInterval.Seconds()
	fmt.Fprintf(&b, "Tactical Command: tick %d (%.1fs game time), %gx, %s\n", w.TickCount, elapsed, w.Speed, state)
	fmt.Fprintf(&b, "Resources: %d\n", w.Resources)

	for _, team := range []core.Team{core.TeamPlayer, core.TeamEnemy} {
		units := w.LivingUnits(team)
		fmt.Fprintf(&b, "%-6s units %d, buildings %d, spawned %d, lost %d, damage taken %.1f\n",
			team, len(units), w.CountBuildings(team),
			s.stats.Spawned[team], s.stats.Destroyed[team], s.stats.DamageTaken[team])
	}
	for _, team := range []core.Team{core.TeamPlayer, core.TeamEnemy} {
		if base := w.Base(team); base != nil {
			fmt.Fprintf(&b, "Threat at %s base: %.1f\n", team, ai.Threat(w, team.Opponent(), base.Position, 6))
		}
	}
	fmt.Fprintf(&b, "Commands: %d (%d rejected), buildings completed %d, reinforcement waves %d\n",
		s.stats.Commands, s.stats.Rejected, s.stats.Completed, s.stats.Reinforcements)

	b.WriteString("Units:\n")
	units := append([]*core.Unit(nil), w.Units...)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Team < units[j].Team })
	for _, u := range units {
		mark := " "
		if u.Selected {
			mark = "*"
		}
		fmt.Fprintf(&b, " %s %-16s %-8s %s hp %.0f/%.0f", mark, u.ID, u.Type, u.Position, u.Health, u.MaxHealth)
		if u.TargetID != "" {
			fmt.Fprintf(&b, " -> %s", u.TargetID)
		}
		b.WriteByte('\n')
	}
	b.WriteString("Buildings:\n")
	for _, bl := range w.Buildings {
		status := "ready"
		if bl.Constructing {
			status = fmt.Sprintf("building %.0f%%", bl.Progress)
		}
		fmt.Fprintf(&b, "   %-18s %-8s %s %s\n", bl.ID, bl.Type, bl.Position, status)
	}
	return b.String()
}
