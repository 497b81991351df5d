// Package session owns one running game: the world, its systems, the clock and
// the actions a player may take. A Session is not safe for concurrent use.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/1siamBot/tactical-command/engine/ai"
	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/systems"
)

// Recorder receives every command applied to a session
type Recorder interface {
	Record(cmd command.Command) error
}

// Session is a single match
type Session struct {
	Balance *config.Balance
	World   *core.World
	Loop    *core.GameLoop

	rng      *rand.Rand
	log      *slog.Logger
	recorder Recorder
	rules    []*ai.Rule
	rulesSet bool
	stats    Stats
}

// Option configures a Session
type Option func(*Session)

// WithSeed seeds the placement RNG for deterministic runs
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithRecorder records applied commands, typically to a replay file
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithRules replaces the reinforcement rules compiled from the balance
func WithRules(rules []*ai.Rule) Option {
	return func(s *Session) {
		s.rules = rules
		s.rulesSet = true
	}
}

// New creates a session on the starting scenario. A nil balance uses the
// defaults.
func New(bal *config.Balance, opts ...Option) (*Session, error) {
	if bal == nil {
		bal = config.Default()
	}
	s := &Session{
		Balance: bal,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- gameplay randomness
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if !s.rulesSet {
		rules, err := ai.NewRules(bal.Reinforcements)
		if err != nil {
			return nil, fmt.Errorf("reinforcements: %w", err)
		}
		s.rules = rules
	}

	w := core.NewWorld(bal.GridSize, bal.StartingResources)
	w.AddSystem(&systems.ConstructionSystem{Step: bal.ConstructionStep})
	w.AddSystem(&systems.MoveOrderSystem{Step: bal.MoveStep})
	w.AddSystem(&ai.EnemyAISystem{Step: bal.MoveStep})
	w.AddSystem(&systems.CombatSystem{DamageScale: bal.DamageScale, ReturnFire: bal.PlayerReturnFire})
	w.AddSystem(&ai.ReinforcementSystem{Rules: s.rules, Balance: bal, Logger: s.log})
	w.Bus.OnAny(s.stats.observe)
	s.World = w
	s.Loop = core.NewGameLoop(w, bal.TickInterval)

	s.setupScenario()
	w.Bus.Dispatch()
	s.stats.reset()
	s.log.Info("session started",
		"grid", bal.GridSize,
		"resources", bal.StartingResources,
		"rules", len(s.rules),
	)
	return s, nil
}

func (s *Session) setupScenario() {
	w, bal := s.World, s.Balance
	mid := float64(bal.GridSize / 2)
	far := float64(bal.GridSize - 3)

	systems.NewBuilding(w, core.TeamPlayer, core.BuildingBase, bal.Buildings[core.BuildingBase], core.Position{X: 2, Y: mid})
	systems.NewBuilding(w, core.TeamEnemy, core.BuildingBase, bal.Buildings[core.BuildingBase], core.Position{X: far, Y: mid})

	systems.NewUnit(w, core.TeamPlayer, core.UnitInfantry, bal.Units[core.UnitInfantry], core.Position{X: 4, Y: mid})
	systems.NewUnit(w, core.TeamPlayer, core.UnitTank, bal.Units[core.UnitTank], core.Position{X: 5, Y: mid + 1})
	systems.NewUnit(w, core.TeamEnemy, core.UnitInfantry, bal.Units[core.UnitInfantry], core.Position{X: far - 2, Y: mid})
}

// Events returns the session's event bus. Handlers run on the goroutine that
// drives the session.
func (s *Session) Events() *core.EventBus {
	return s.World.Bus
}

// Logger returns the session logger
func (s *Session) Logger() *slog.Logger {
	return s.log
}

// ---- Clock ----

// Tick advances the simulation one tick. It does nothing while paused.
func (s *Session) Tick() bool {
	if s.World.Paused {
		return false
	}
	s.World.Tick(s.Balance.TickInterval.Seconds())
	s.World.Bus.Dispatch()
	return true
}

// Advance feeds wall time into the fixed-step loop and returns the ticks run
func (s *Session) Advance(elapsed time.Duration) int {
	n := s.Loop.Advance(elapsed)
	s.World.Bus.Dispatch()
	return n
}

// TickInterval returns the wall time of one tick at the current speed
func (s *Session) TickInterval() time.Duration {
	return s.Loop.TickInterval()
}
