package ai

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/steering"
	"github.com/1siamBot/tactical-command/engine/systems"
)

// threatRadius is how far from the enemy base player units count as a threat
const threatRadius = 6.0

// RuleEnv is the state a reinforcement condition is evaluated against
type RuleEnv struct {
	Tick            int
	EnemyUnits      int
	PlayerUnits     int
	PlayerBuildings int
	Resources       int
	EnemyBaseAlive  bool
	BaseThreat      float64 // player pressure on the enemy base
}

// Rule is a compiled reinforcement wave
type Rule struct {
	Def     config.RuleDef
	program *vm.Program

	fired    bool
	lastTick uint64
}

// NewRules compiles every rule condition into expr bytecode. Declaration order
// is evaluation order.
func NewRules(defs []config.RuleDef) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(defs))
	for _, d := range defs {
		prog, err := expr.Compile(d.When, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", d.Name, err)
		}
		rules = append(rules, &Rule{Def: d, program: prog})
	}
	return rules, nil
}

// ready reports whether the cooldown has elapsed
func (r *Rule) ready(tick uint64) bool {
	return !r.fired || tick-r.lastTick >= r.Def.Cooldown
}

// Env snapshots the world for rule evaluation
func Env(w *core.World) RuleEnv {
	env := RuleEnv{
		Tick:            int(w.TickCount),
		EnemyUnits:      len(w.LivingUnits(core.TeamEnemy)),
		PlayerUnits:     len(w.LivingUnits(core.TeamPlayer)),
		PlayerBuildings: w.CountBuildings(core.TeamPlayer),
		Resources:       w.Resources,
	}
	if base := w.Base(core.TeamEnemy); base != nil {
		env.EnemyBaseAlive = true
		env.BaseThreat = Threat(w, core.TeamPlayer, base.Position, threatRadius)
	}
	return env
}

// ReinforcementSystem spawns enemy waves beside the enemy base when a rule's
// condition holds
type ReinforcementSystem struct {
	Rules   []*Rule
	Balance *config.Balance
	Logger  *slog.Logger
}

func (s *ReinforcementSystem) Priority() int { return 30 }

func (s *ReinforcementSystem) Update(w *core.World, _ float64) {
	if len(s.Rules) == 0 {
		return
	}
	base := w.Base(core.TeamEnemy)
	if base == nil {
		return
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	env := Env(w)
	for _, r := range s.Rules {
		if !r.ready(w.TickCount) {
			continue
		}
		result, err := vm.Run(r.program, env)
		if err != nil {
			log.Warn("reinforcement condition error", "rule", r.Def.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		def, err := s.Balance.Unit(r.Def.Spawn)
		if err != nil {
			log.Warn("reinforcement unit unknown", "rule", r.Def.Name, "error", err)
			continue
		}

		r.fired = true
		r.lastTick = w.TickCount
		for i := 0; i < r.Def.Count; i++ {
			pos := base.Position.Offset(-2, float64(i%3-1))
			systems.NewUnit(w, core.TeamEnemy, r.Def.Spawn, def, steering.Clamp(pos, w.GridSize))
		}
		env.EnemyUnits += r.Def.Count
		w.Emit(core.EvtReinforcements, r.Def.Name, fmt.Sprintf("%d %s", r.Def.Count, r.Def.Spawn))
		log.Debug("reinforcements arrived", "rule", r.Def.Name, "count", r.Def.Count, "tick", w.TickCount)
	}
}
