package core

import (
	"errors"
	"math"
	"testing"
)

type countSystem struct {
	prio  int
	calls *[]int
}

func (s countSystem) Priority() int { return s.prio }
func (s countSystem) Update(_ *World, _ float64) {
	*s.calls = append(*s.calls, s.prio)
}

func TestSystemsRunInPriorityOrder(t *testing.T) {
	w := NewWorld(20, 0)
	var calls []int
	w.AddSystem(countSystem{30, &calls})
	w.AddSystem(countSystem{5, &calls})
	w.AddSystem(countSystem{20, &calls})

	w.Tick(0.1)
	want := []int{5, 20, 30}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	if w.TickCount != 1 {
		t.Errorf("TickCount = %d, want 1", w.TickCount)
	}
}

func TestTickRemovesDeadUnitsAndPrunesReferences(t *testing.T) {
	w := NewWorld(20, 0)
	w.AddUnit(&Unit{ID: "a", Team: TeamPlayer, Health: 0, MaxHealth: 100})
	w.AddUnit(&Unit{ID: "b", Team: TeamEnemy, Health: 50, MaxHealth: 100, TargetID: "a"})
	w.AddUnit(&Unit{ID: "c", Team: TeamPlayer, Health: 10, MaxHealth: 100})
	w.SetSelection([]string{"a", "c"})

	var destroyed []string
	w.Bus.On(EvtUnitDestroyed, func(e Event) { destroyed = append(destroyed, e.Subject) })

	w.Tick(0.1)
	w.Bus.Dispatch()

	if len(w.Units) != 2 {
		t.Fatalf("expected 2 units after cleanup, got %d", len(w.Units))
	}
	if w.UnitByID("a") != nil {
		t.Fatalf("dead unit still present")
	}
	if got := w.UnitByID("b").TargetID; got != "" {
		t.Errorf("dangling target not cleared: %q", got)
	}
	if len(w.Selected) != 1 || w.Selected[0] != "c" {
		t.Errorf("selection = %v, want [c]", w.Selected)
	}
	if len(destroyed) != 1 || destroyed[0] != "a" {
		t.Errorf("destroyed events = %v, want [a]", destroyed)
	}
}

func TestSpendRefusesOverdraft(t *testing.T) {
	w := NewWorld(20, 100)
	if err := w.Spend(150); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("Spend(150) err = %v, want ErrInsufficientResources", err)
	}
	if w.Resources != 100 {
		t.Fatalf("resources changed on refused spend: %d", w.Resources)
	}
	if err := w.Spend(100); err != nil {
		t.Fatalf("Spend(100): %v", err)
	}
	if w.Resources != 0 {
		t.Errorf("resources = %d, want 0", w.Resources)
	}
}

func TestNewIDSkipsExisting(t *testing.T) {
	w := NewWorld(20, 0)
	w.AddUnit(&Unit{ID: "player-unit-1", Health: 1})
	w.AddUnit(&Unit{ID: "player-unit-2", Health: 1})

	id := w.NewID(TeamPlayer, "unit")
	if id != "player-unit-3" {
		t.Fatalf("NewID = %q, want player-unit-3", id)
	}
	if again := w.NewID(TeamPlayer, "unit"); again == id {
		t.Fatalf("NewID returned duplicate %q", again)
	}
}

func TestSetSelectionSyncsFlags(t *testing.T) {
	w := NewWorld(20, 0)
	w.AddUnit(&Unit{ID: "a", Health: 1})
	w.AddUnit(&Unit{ID: "b", Health: 1})

	w.SetSelection([]string{"b"})
	if w.UnitByID("a").Selected || !w.UnitByID("b").Selected {
		t.Fatalf("flags out of sync with selection %v", w.Selected)
	}
	if !w.IsSelected("b") || w.IsSelected("a") {
		t.Fatalf("IsSelected disagrees with selection %v", w.Selected)
	}
}

func TestInBounds(t *testing.T) {
	w := NewWorld(20, 0)
	cases := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{19.9, 19.9}, true},
		{Position{20, 5}, false},
		{Position{-0.1, 5}, false},
	}
	for _, c := range cases {
		if got := w.InBounds(c.p); got != c.want {
			t.Errorf("InBounds(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestDistanceTo(t *testing.T) {
	a := Position{X: 1, Y: 1}
	b := Position{X: 4, Y: 5}
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-9 {
		t.Fatalf("DistanceTo = %f, want 5", d)
	}
}

func TestParseTypes(t *testing.T) {
	if _, err := ParseUnitType("tank"); err != nil {
		t.Fatalf("ParseUnitType(tank): %v", err)
	}
	if _, err := ParseUnitType("mech"); !errors.Is(err, ErrUnknownUnitType) {
		t.Fatalf("ParseUnitType(mech) err = %v", err)
	}
	if _, err := ParseBuildingType("tower"); !errors.Is(err, ErrUnknownBuildingType) {
		t.Fatalf("ParseBuildingType(tower) err = %v", err)
	}
	if TeamPlayer.Opponent() != TeamEnemy || TeamEnemy.Opponent() != TeamPlayer {
		t.Fatalf("Opponent mismatch")
	}
}
