// Package steering moves units across the open grid. There is no terrain, so
// units travel in straight lines.
package steering

import (
	"math"

	"github.com/1siamBot/tactical-command/engine/core"
)

// arriveEpsilon is the distance treated as "already there"
const arriveEpsilon = 1e-6

// Heading returns the unit vector from one position toward another, or a zero
// vector when they coincide
func Heading(from, to core.Position) (hx, hy float64) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < arriveEpsilon {
		return 0, 0
	}
	return dx / dist, dy / dist
}

// StepToward moves from toward to by at most step tiles. The result never
// passes the destination.
func StepToward(from, to core.Position, step float64) core.Position {
	if step <= 0 {
		return from
	}
	dist := from.DistanceTo(to)
	if dist <= step {
		return to
	}
	hx, hy := Heading(from, to)
	return from.Offset(hx*step, hy*step)
}

// Arrived reports whether pos is on the destination
func Arrived(pos, dest core.Position) bool {
	return pos.DistanceTo(dest) < arriveEpsilon
}

// Clamp keeps a position inside a square grid of the given size
func Clamp(p core.Position, size int) core.Position {
	max := float64(size) - arriveEpsilon
	p.X = math.Max(0, math.Min(p.X, max))
	p.Y = math.Max(0, math.Min(p.Y, max))
	return p
}
