package systems

import (
	"math"

	"github.com/1siamBot/tactical-command/engine/core"
)

// CombatSystem validates targets and applies flat per-tick damage
type CombatSystem struct {
	DamageScale float64 // fraction of a unit's Damage dealt each tick
	ReturnFire  bool    // idle player units engage enemies already in range
}

func (s *CombatSystem) Priority() int { return 20 }

func (s *CombatSystem) Update(w *core.World, _ float64) {
	if s.ReturnFire {
		s.acquirePlayerTargets(w)
	}

	// Validate targets
	for _, u := range w.Units {
		if u.TargetID == "" {
			continue
		}
		t := w.UnitByID(u.TargetID)
		if t == nil || !t.Alive() || !u.InRange(t.Position) {
			w.Emit(core.EvtTargetLost, u.ID, u.TargetID)
			u.TargetID = ""
		}
	}

	// Fire. Attackers reduced to zero earlier this tick still shoot.
	for _, u := range w.Units {
		if u.TargetID == "" {
			continue
		}
		t := w.UnitByID(u.TargetID)
		if t == nil {
			continue
		}
		ApplyDamage(w, t, u.Damage*s.DamageScale, u.ID)
	}
}

func (s *CombatSystem) acquirePlayerTargets(w *core.World) {
	enemies := w.LivingUnits(core.TeamEnemy)
	for _, u := range w.Units {
		if u.Team != core.TeamPlayer || !u.Alive() || u.MoveTo != nil || u.TargetID != "" {
			continue
		}
		t, d := NearestUnit(u.Position, enemies)
		if t != nil && d <= u.Range {
			u.TargetID = t.ID
			w.Emit(core.EvtTargetAcquired, u.ID, t.ID)
		}
	}
}

// ApplyDamage subtracts damage from a unit, flooring health at zero. The unit
// is removed by the world after the tick.
func ApplyDamage(w *core.World, target *core.Unit, damage float64, source string) {
	if damage <= 0 || target.Health <= 0 {
		return
	}
	target.Health = math.Max(0, target.Health-damage)
	w.Bus.Emit(core.Event{
		Type:    core.EvtUnitDamaged,
		Tick:    w.TickCount,
		Team:    target.Team,
		Subject: target.ID,
		Detail:  source,
		Amount:  damage,
	})
}
