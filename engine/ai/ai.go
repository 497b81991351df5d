// Package ai drives the computer-controlled team.
package ai

import (
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/steering"
	"github.com/1siamBot/tactical-command/engine/systems"
)

// EnemyAISystem makes every enemy unit hunt the nearest player unit: engage
// when in range, otherwise close the distance
type EnemyAISystem struct {
	Step float64 // tiles per tick per point of speed
}

func (s *EnemyAISystem) Priority() int { return 10 }

func (s *EnemyAISystem) Update(w *core.World, _ float64) {
	players := w.LivingUnits(core.TeamPlayer)
	if len(players) == 0 {
		return
	}
	for _, u := range w.Units {
		if u.Team != core.TeamEnemy || !u.Alive() {
			continue
		}
		target, dist := systems.NearestUnit(u.Position, players)
		if target == nil {
			continue
		}
		if dist <= u.Range {
			if u.TargetID != target.ID {
				w.Emit(core.EvtTargetAcquired, u.ID, target.ID)
			}
			u.TargetID = target.ID
			continue
		}
		u.TargetID = ""
		u.Position = steering.StepToward(u.Position, target.Position, u.Speed*s.Step)
	}
}

// Threat sums the damage output of team's living units within radius of pos,
// weighted by closeness
func Threat(w *core.World, team core.Team, pos core.Position, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	threat := 0.0
	for _, u := range w.LivingUnits(team) {
		d := u.Position.DistanceTo(pos)
		if d <= radius {
			threat += u.Damage * (1.0 - d/radius)
		}
	}
	return threat
}
