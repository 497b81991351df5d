// Package grid converts between board cells and screen pixels.
package grid

import (
	"math"

	"github.com/1siamBot/tactical-command/engine/core"
)

// DefaultCellSize is the pixel width of one board cell
const DefaultCellSize = 40

// Layout places a square board on screen
type Layout struct {
	OriginX, OriginY int // top-left pixel of cell (0,0)
	CellSize         int
	Size             int // cells per side
}

// NewLayout creates a layout for a size x size board at the given origin
func NewLayout(size, originX, originY int) Layout {
	return Layout{OriginX: originX, OriginY: originY, CellSize: DefaultCellSize, Size: size}
}

// PixelSize returns the board's width and height in pixels
func (l Layout) PixelSize() int {
	return l.Size * l.CellSize
}

// InBounds reports whether a pixel lies on the board
func (l Layout) InBounds(px, py int) bool {
	x, y := px-l.OriginX, py-l.OriginY
	n := l.PixelSize()
	return x >= 0 && y >= 0 && x < n && y < n
}

// CellAt returns the integer cell under a pixel
func (l Layout) CellAt(px, py int) (core.Position, bool) {
	if !l.InBounds(px, py) {
		return core.Position{}, false
	}
	cx := (px - l.OriginX) / l.CellSize
	cy := (py - l.OriginY) / l.CellSize
	return core.Position{X: float64(cx), Y: float64(cy)}, true
}

// ToScreen returns the pixel at the top-left corner of a (possibly
// fractional) board position
func (l Layout) ToScreen(p core.Position) (float64, float64) {
	cs := float64(l.CellSize)
	return float64(l.OriginX) + p.X*cs, float64(l.OriginY) + p.Y*cs
}

// CellCenter returns the pixel at the centre of the cell holding p
func (l Layout) CellCenter(p core.Position) (float64, float64) {
	x, y := l.ToScreen(p)
	half := float64(l.CellSize) / 2
	return x + half, y + half
}

// HitRadius is how close to a unit's centre a click must land, in pixels
func (l Layout) HitRadius() float64 {
	return float64(l.CellSize) * 0.4
}

// UnitAt returns the topmost unit whose marker contains the pixel, or nil
func (l Layout) UnitAt(units []*core.Unit, px, py int) *core.Unit {
	r := l.HitRadius()
	var best *core.Unit
	bestDist := math.MaxFloat64
	for _, u := range units {
		cx, cy := l.CellCenter(u.Position)
		d := math.Hypot(float64(px)-cx, float64(py)-cy)
		if d <= r && d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}
