package render

import (
	"image/color"

	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/hud"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const barHeight = 4

// drawBuilding draws a building as a team-coloured block, faded while it is
// under construction
func (r *Renderer) drawBuilding(screen *ebiten.Image, b *core.Building) {
	x, y := r.Layout.ToScreen(b.Position)
	cs := float32(r.Layout.CellSize)
	inset := cs * 0.1
	if b.Type == core.BuildingBase {
		inset = 0
	}
	bx, by, size := float32(x)+inset, float32(y)+inset, cs-2*inset

	alpha := float32(1)
	if b.Constructing {
		alpha = 0.5
	}
	if !r.drawSprite(screen, r.Sprites.building(b.Type), b.Team, bx, by, size, alpha) {
		tc := hud.TeamColor(b.Team)
		clr := color.NRGBA{tc.R, tc.G, tc.B, uint8(255 * alpha)}
		vector.DrawFilledRect(screen, bx, by, size, size, clr, false)
		vector.StrokeRect(screen, bx, by, size, size, 1, hud.ColorBar, false)
	}

	if b.Constructing {
		p := float32(b.Progress / 100)
		vector.DrawFilledRect(screen, bx, by+size-barHeight, size, barHeight, hud.ColorBar, false)
		vector.DrawFilledRect(screen, bx, by+size-barHeight, size*p, barHeight, hud.ColorProgress, false)
		return
	}
	if b.Health < b.MaxHealth {
		drawHealthBar(screen, bx, by-barHeight-1, size, b.Health/b.MaxHealth)
	}
}

// drawUnit draws a unit marker with its health bar and selection ring
func (r *Renderer) drawUnit(screen *ebiten.Image, u *core.Unit) {
	cx, cy := r.Layout.CellCenter(u.Position)
	rad := float32(r.Layout.HitRadius())
	fx, fy := float32(cx), float32(cy)

	if u.Selected {
		vector.StrokeCircle(screen, fx, fy, rad+3, 2, hud.ColorSelection, false)
	}
	if !r.drawSprite(screen, r.Sprites.unit(u.Type), u.Team, fx-rad, fy-rad, 2*rad, 1) {
		vector.DrawFilledCircle(screen, fx, fy, rad, hud.TeamColor(u.Team), false)
		drawTypeMark(screen, u.Type, fx, fy, rad)
	}
	drawHealthBar(screen, fx-rad, fy-rad-barHeight-2, 2*rad, u.HealthRatio())
}

// drawTypeMark tells unit classes apart when no sprite is loaded
func drawTypeMark(screen *ebiten.Image, t core.UnitType, x, y, rad float32) {
	s := rad * 0.45
	switch t {
	case core.UnitTank:
		vector.DrawFilledRect(screen, x-s, y-s, 2*s, 2*s, hud.ColorBar, false)
	case core.UnitAircraft:
		vector.StrokeLine(screen, x-s, y, x+s, y, 2, hud.ColorBar, false)
		vector.StrokeLine(screen, x, y-s, x, y+s, 2, hud.ColorBar, false)
	default:
		vector.DrawFilledCircle(screen, x, y, s/2, hud.ColorBar, false)
	}
}

func drawHealthBar(screen *ebiten.Image, x, y, w float32, ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	vector.DrawFilledRect(screen, x, y, w, barHeight, hud.ColorBar, false)
	vector.DrawFilledRect(screen, x, y, w*float32(ratio), barHeight, hud.HealthColor(ratio), false)
}
