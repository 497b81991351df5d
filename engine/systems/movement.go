package systems

import (
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/steering"
)

// MoveOrderSystem carries out player move orders. It runs before the enemy AI
// so enemies chase the position a player unit ends the tick on.
type MoveOrderSystem struct {
	Step float64 // tiles per tick per point of speed
}

func (s *MoveOrderSystem) Priority() int { return 8 }

func (s *MoveOrderSystem) Update(w *core.World, _ float64) {
	for _, u := range w.Units {
		if u.Team != core.TeamPlayer || u.MoveTo == nil || !u.Alive() {
			continue
		}
		u.TargetID = ""
		u.Position = steering.StepToward(u.Position, *u.MoveTo, u.Speed*s.Step)
		if steering.Arrived(u.Position, *u.MoveTo) {
			u.Position = *u.MoveTo
			u.MoveTo = nil
		}
	}
}

// NearestUnit returns the closest living unit from candidates, or nil. Ties go
// to the earliest candidate.
func NearestUnit(from core.Position, candidates []*core.Unit) (*core.Unit, float64) {
	var best *core.Unit
	bestDist := 0.0
	for _, c := range candidates {
		if !c.Alive() {
			continue
		}
		d := from.DistanceTo(c.Position)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}
