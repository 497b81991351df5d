package core

import (
	"testing"
	"time"
)

func TestAdvanceRunsWholeTicks(t *testing.T) {
	w := NewWorld(20, 0)
	gl := NewGameLoop(w, 100*time.Millisecond)

	if n := gl.Advance(50 * time.Millisecond); n != 0 {
		t.Fatalf("Advance(50ms) ran %d ticks, want 0", n)
	}
	if n := gl.Advance(60 * time.Millisecond); n != 1 {
		t.Fatalf("Advance(+60ms) ran %d ticks, want 1", n)
	}
	if w.TickCount != 1 {
		t.Fatalf("TickCount = %d, want 1", w.TickCount)
	}
}

func TestAdvanceScalesWithSpeed(t *testing.T) {
	w := NewWorld(20, 0)
	w.Speed = 2
	gl := NewGameLoop(w, 100*time.Millisecond)

	if got := gl.TickInterval(); got != 50*time.Millisecond {
		t.Fatalf("TickInterval at 2x = %v, want 50ms", got)
	}
	if n := gl.Advance(200 * time.Millisecond); n != 4 {
		t.Fatalf("Advance(200ms) at 2x ran %d ticks, want 4", n)
	}
}

func TestAdvanceCapsFrameTime(t *testing.T) {
	w := NewWorld(20, 0)
	gl := NewGameLoop(w, 100*time.Millisecond)

	if n := gl.Advance(10 * time.Second); n != 2 {
		t.Fatalf("Advance(10s) ran %d ticks, want 2 (250ms cap)", n)
	}
}

func TestPausedLoopDoesNotTick(t *testing.T) {
	w := NewWorld(20, 0)
	w.Paused = true
	gl := NewGameLoop(w, 100*time.Millisecond)

	if n := gl.Advance(200 * time.Millisecond); n != 0 {
		t.Fatalf("paused loop ran %d ticks", n)
	}
	w.Paused = false
	if n := gl.Advance(50 * time.Millisecond); n != 0 {
		t.Fatalf("time spent paused leaked into the accumulator: %d ticks", n)
	}
}

func TestUpdateUsesClock(t *testing.T) {
	w := NewWorld(20, 0)
	gl := NewGameLoop(w, 100*time.Millisecond)
	base := time.Unix(0, 0)
	now := base
	gl.now = func() time.Time { return now }
	gl.Reset()

	now = base.Add(120 * time.Millisecond)
	if n := gl.Update(); n != 1 {
		t.Fatalf("Update after 120ms ran %d ticks, want 1", n)
	}
}

func TestEventBusDispatch(t *testing.T) {
	bus := NewEventBus()
	var typed, all int
	bus.On(EvtUnitSpawned, func(Event) { typed++ })
	bus.OnAny(func(Event) { all++ })

	bus.Emit(Event{Type: EvtUnitSpawned})
	bus.Emit(Event{Type: EvtBuildingPlaced})
	if bus.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", bus.Pending())
	}
	bus.Dispatch()

	if typed != 1 || all != 2 {
		t.Fatalf("typed=%d all=%d, want 1 and 2", typed, all)
	}
	if bus.Pending() != 0 {
		t.Fatalf("queue not drained")
	}
	if EvtUnitDestroyed.String() != "unit_destroyed" {
		t.Errorf("EventType.String = %q", EvtUnitDestroyed.String())
	}
}
