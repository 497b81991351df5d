package core

import "time"

// DefaultTickInterval is the wall time of one tick at 1x speed
const DefaultTickInterval = 100 * time.Millisecond

// maxFrame caps how much wall time one Advance call may consume
const maxFrame = 250 * time.Millisecond

// GameLoop manages the fixed-timestep game loop. The tick length is the base
// interval divided by the world's speed multiplier.
type GameLoop struct {
	World       *World
	Interval    time.Duration // tick interval at 1x
	accumulator time.Duration
	lastTime    time.Time
	now         func() time.Time
}

// NewGameLoop creates a game loop for w ticking every interval at 1x
func NewGameLoop(w *World, interval time.Duration) *GameLoop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &GameLoop{
		World:    w,
		Interval: interval,
		now:      time.Now,
		lastTime: time.Now(),
	}
}

// TickInterval returns the effective wall time of one tick
func (gl *GameLoop) TickInterval() time.Duration {
	speed := gl.World.Speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(gl.Interval) / speed)
}

// Update should be called every render frame. It reads the wall clock and
// runs however many ticks have come due.
func (gl *GameLoop) Update() int {
	now := gl.now()
	elapsed := now.Sub(gl.lastTime)
	gl.lastTime = now
	return gl.Advance(elapsed)
}

// Advance feeds elapsed wall time into the loop and returns the number of
// ticks run. Nothing runs while the world is paused.
func (gl *GameLoop) Advance(elapsed time.Duration) int {
	if gl.World.Paused {
		gl.accumulator = 0
		return 0
	}
	// Cap frame time to avoid spiral of death
	if elapsed > maxFrame {
		elapsed = maxFrame
	}
	gl.accumulator += elapsed

	step := gl.TickInterval()
	ticks := 0
	for gl.accumulator >= step {
		gl.World.Tick(step.Seconds())
		gl.accumulator -= step
		ticks++
	}
	return ticks
}

// Reset restarts wall-clock tracking, used after a resume
func (gl *GameLoop) Reset() {
	gl.accumulator = 0
	gl.lastTime = gl.now()
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.World.TickCount
}
