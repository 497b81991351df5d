package hud

import (
	"image/color"

	"github.com/1siamBot/tactical-command/engine/core"
)

// Palette shared by the board and the panel
var (
	ColorSelection = color.RGBA{255, 255, 255, 255}
	ColorBoard     = color.RGBA{28, 48, 28, 255}
	ColorGridLine  = color.RGBA{0, 0, 0, 70}
	ColorPanel     = color.RGBA{20, 20, 40, 220}
	ColorBar       = color.RGBA{0, 0, 0, 180}
	ColorProgress  = color.RGBA{240, 200, 40, 255}

	healthGood = color.RGBA{0, 200, 0, 255}
	healthWarn = color.RGBA{255, 200, 0, 255}
	healthLow  = color.RGBA{255, 0, 0, 255}
)

// TeamColor returns the marker colour for a team
func TeamColor(t core.Team) color.RGBA {
	c := t.Color()
	return color.RGBA{uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)}
}

// HealthColor is green above half health, amber above a quarter, red below
func HealthColor(ratio float64) color.RGBA {
	switch {
	case ratio > 0.5:
		return healthGood
	case ratio > 0.25:
		return healthWarn
	}
	return healthLow
}

// ButtonColor returns fill and border colours for a button
func ButtonColor(b Button, enabled, active bool) (fill, border color.RGBA) {
	switch {
	case !enabled:
		return color.RGBA{45, 45, 45, 255}, color.RGBA{80, 80, 80, 255}
	case active:
		return color.RGBA{100, 100, 200, 255}, color.RGBA{180, 180, 240, 255}
	case b.Kind == KindSpawn:
		return color.RGBA{60, 80, 60, 255}, color.RGBA{100, 140, 100, 255}
	}
	return color.RGBA{60, 60, 100, 255}, color.RGBA{100, 100, 160, 255}
}
