package systems

import (
	"math"

	"github.com/1siamBot/tactical-command/engine/core"
)

// ConstructionSystem advances buildings under construction
type ConstructionSystem struct {
	Step float64 // percent per tick
}

func (s *ConstructionSystem) Priority() int { return 5 }

func (s *ConstructionSystem) Update(w *core.World, _ float64) {
	for _, b := range w.Buildings {
		if !b.Constructing || b.Progress >= 100 {
			continue
		}
		next := b.Progress + s.Step
		b.Progress = math.Min(next, 100)
		b.Constructing = next < 100
		if !b.Constructing {
			w.EmitTeam(core.EvtBuildingComplete, b.Team, b.ID, string(b.Type))
		}
	}
}
