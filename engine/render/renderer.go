// Package render draws the battlefield with ebiten.
package render

import (
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/grid"
	"github.com/1siamBot/tactical-command/engine/hud"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Renderer draws the board, buildings and units
type Renderer struct {
	Layout  grid.Layout
	Sprites *SpriteSet
}

// NewRenderer creates a renderer for a board layout. Sprites may be nil.
func NewRenderer(l grid.Layout, sprites *SpriteSet) *Renderer {
	return &Renderer{Layout: l, Sprites: sprites}
}

// Draw renders the whole board
func (r *Renderer) Draw(screen *ebiten.Image, w *core.World) {
	r.DrawGrid(screen)
	for _, b := range w.Buildings {
		r.drawBuilding(screen, b)
	}
	for _, u := range w.Units {
		if u.Alive() {
			r.drawUnit(screen, u)
		}
	}
}

// DrawGrid fills the board and draws the cell lines
func (r *Renderer) DrawGrid(screen *ebiten.Image) {
	l := r.Layout
	ox, oy := float32(l.OriginX), float32(l.OriginY)
	n := float32(l.PixelSize())
	vector.DrawFilledRect(screen, ox, oy, n, n, hud.ColorBoard, false)

	cs := float32(l.CellSize)
	for i := 0; i <= l.Size; i++ {
		d := float32(i) * cs
		vector.StrokeLine(screen, ox+d, oy, ox+d, oy+n, 1, hud.ColorGridLine, false)
		vector.StrokeLine(screen, ox, oy+d, ox+n, oy+d, 1, hud.ColorGridLine, false)
	}
}

// DrawHover outlines the cell under the cursor
func (r *Renderer) DrawHover(screen *ebiten.Image, mx, my int) {
	cell, ok := r.Layout.CellAt(mx, my)
	if !ok {
		return
	}
	x, y := r.Layout.ToScreen(cell)
	cs := float32(r.Layout.CellSize)
	vector.StrokeRect(screen, float32(x), float32(y), cs, cs, 1, hud.ColorSelection, false)
}
