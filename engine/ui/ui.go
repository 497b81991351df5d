// Package ui draws the control panel, top bar and overlays.
package ui

import (
	"fmt"
	"image/color"

	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/hud"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	textColor = color.RGBA{230, 230, 230, 255}
	dimColor  = color.RGBA{130, 130, 130, 255}
	warnColor = color.RGBA{255, 120, 90, 255}
)

// flashFrames is how long a status message stays up (60 fps)
const flashFrames = 180

// Panel draws the HUD laid out by hud.HUD
type Panel struct {
	Layout *hud.HUD

	flash     string
	flashLeft int
}

func NewPanel(h *hud.HUD) *Panel {
	return &Panel{Layout: h}
}

// Flash shows a short status message in the top bar
func (p *Panel) Flash(msg string) {
	p.flash = msg
	p.flashLeft = flashFrames
}

// Update ages the status message; call once per frame
func (p *Panel) Update() {
	if p.flashLeft > 0 {
		p.flashLeft--
	}
}

// Draw renders the entire HUD
func (p *Panel) Draw(screen *ebiten.Image, w *core.World, mx, my int) {
	p.drawTopBar(screen, w)
	p.drawSidebar(screen, w, mx, my)
	p.drawSelectionInfo(screen, w)
	if w.Paused {
		p.drawPaused(screen)
	}
}

func drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	// basicfont draws from the baseline
	text.Draw(screen, s, basicfont.Face7x13, x, y+11, clr)
}

func (p *Panel) drawTopBar(screen *ebiten.Image, w *core.World) {
	vector.DrawFilledRect(screen, 0, 0, float32(p.Layout.ScreenW), hud.TopBarHeight, hud.ColorBar, false)
	info := fmt.Sprintf("Resources: %d | Tick: %d | Speed: %gx", w.Resources, w.TickCount, w.Speed)
	if w.Paused {
		info += " | PAUSED"
	}
	drawText(screen, info, 10, 8, textColor)
	if p.flashLeft > 0 {
		drawText(screen, p.flash, p.Layout.SidebarX()-len(p.flash)*7-10, 8, warnColor)
	}
}

func (p *Panel) drawSidebar(screen *ebiten.Image, w *core.World, mx, my int) {
	l := p.Layout
	sx := float32(l.SidebarX())
	vector.DrawFilledRect(screen, sx, hud.TopBarHeight, hud.SidebarWidth, float32(l.ScreenH-hud.TopBarHeight), hud.ColorPanel, false)

	drawText(screen, "=== UNITS ===", int(sx)+10, l.SpawnHeaderY, textColor)
	drawText(screen, "=== BUILD ===", int(sx)+10, l.BuildHeaderY, textColor)

	for _, b := range l.Buttons {
		enabled := b.Enabled(w.Resources)
		active := b.Active(w.Paused, w.Speed) || (enabled && b.Rect.Contains(mx, my))
		fill, border := hud.ButtonColor(b, enabled, active)
		r := b.Rect
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), fill, false)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, border, false)
		clr := color.Color(textColor)
		if !enabled {
			clr = dimColor
		}
		tx := r.X + 6
		if b.Kind == hud.KindFlow {
			tx = r.X + r.W/2 - len(b.Label)*7/2
		}
		drawText(screen, b.Label, tx, r.Y+5, clr)
	}
}

func (p *Panel) drawSelectionInfo(screen *ebiten.Image, w *core.World) {
	r := p.Layout.InfoRect()
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), hud.ColorBar, false)
	if len(w.Selected) == 0 {
		drawText(screen, "No units selected", r.X+10, r.Y+10, dimColor)
		return
	}

	first := w.UnitByID(w.Selected[0])
	if first == nil {
		return
	}
	lines := []string{
		fmt.Sprintf("%s (%d selected)", first.ID, len(w.Selected)),
		fmt.Sprintf("HP %.0f/%.0f  DMG %.0f  RNG %.0f", first.Health, first.MaxHealth, first.Damage, first.Range),
	}
	if first.MoveTo != nil {
		lines = append(lines, "Moving to "+first.MoveTo.String())
	} else if first.TargetID != "" {
		lines = append(lines, "Engaging "+first.TargetID)
	}
	for i, s := range lines {
		drawText(screen, s, r.X+10, r.Y+8+i*16, textColor)
	}

	ratio := first.HealthRatio()
	bw := float32(r.W - 20)
	vector.DrawFilledRect(screen, float32(r.X+10), float32(r.Y+r.H-10), bw*float32(ratio), 4, hud.HealthColor(ratio), false)
}

func (p *Panel) drawPaused(screen *ebiten.Image) {
	bw := p.Layout.SidebarX()
	title := "PAUSED - press Space to resume"
	cx := bw / 2
	cy := p.Layout.ScreenH / 2
	vector.DrawFilledRect(screen, float32(cx-130), float32(cy-20), 260, 40, color.RGBA{0, 0, 0, 160}, false)
	drawText(screen, title, cx-len(title)*7/2, cy-6, textColor)
}
