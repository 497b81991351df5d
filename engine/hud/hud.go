// Package hud lays out the control panel and maps clicks to commands.
package hud

import (
	"fmt"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
)

const (
	SidebarWidth = 220
	TopBarHeight = 30
	InfoHeight   = 80

	buttonHeight = 24
	buttonGap    = 4
	margin       = 10
)

// Rect is a screen rectangle in pixels
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the pixel lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// ButtonKind groups buttons for drawing
type ButtonKind int

const (
	KindFlow ButtonKind = iota
	KindSpawn
	KindBuild
)

// Button is one clickable control
type Button struct {
	Label string
	Kind  ButtonKind
	Rect  Rect
	Cmd   command.Command
	Cost  int
	Speed float64 // set on speed buttons
}

// Enabled reports whether the player can currently afford the button
func (b Button) Enabled(resources int) bool {
	return resources >= b.Cost
}

// Active reports whether a flow button reflects the current state
func (b Button) Active(paused bool, speed float64) bool {
	switch b.Cmd.Type {
	case command.CmdTogglePause:
		return paused
	case command.CmdSetSpeed:
		return b.Speed == speed
	}
	return false
}

// HUD is the control panel beside the board
type HUD struct {
	ScreenW, ScreenH int
	Buttons          []Button

	SpawnHeaderY int
	BuildHeaderY int
}

// New lays out the panel for a screen of sw x sh pixels
func New(sw, sh int, bal *config.Balance) *HUD {
	h := &HUD{ScreenW: sw, ScreenH: sh}
	sx := sw - SidebarWidth + margin
	inner := SidebarWidth - 2*margin
	y := TopBarHeight + margin

	// pause and speed share the first row
	flow := 1 + len(bal.Speeds)
	bw := (inner - (flow-1)*buttonGap) / flow
	h.Buttons = append(h.Buttons, Button{
		Label: "Pause",
		Kind:  KindFlow,
		Rect:  Rect{sx, y, bw, buttonHeight},
		Cmd:   command.TogglePause(),
	})
	for i, s := range bal.Speeds {
		h.Buttons = append(h.Buttons, Button{
			Label: fmt.Sprintf("%gx", s),
			Kind:  KindFlow,
			Rect:  Rect{sx + (i+1)*(bw+buttonGap), y, bw, buttonHeight},
			Cmd:   command.SetSpeed(s),
			Speed: s,
		})
	}
	y += buttonHeight + 2*margin

	h.SpawnHeaderY = y
	y += 16
	for _, t := range core.UnitTypes {
		def, err := bal.Unit(t)
		if err != nil {
			continue
		}
		h.Buttons = append(h.Buttons, Button{
			Label: fmt.Sprintf("Train %s $%d", t, def.Cost),
			Kind:  KindSpawn,
			Rect:  Rect{sx, y, inner, buttonHeight},
			Cmd:   command.Spawn(t),
			Cost:  def.Cost,
		})
		y += buttonHeight + buttonGap
	}
	y += margin

	h.BuildHeaderY = y
	y += 16
	for _, t := range core.BuildingTypes {
		def, err := bal.Building(t)
		if err != nil || !def.Buildable {
			continue
		}
		h.Buttons = append(h.Buttons, Button{
			Label: fmt.Sprintf("Build %s $%d", t, def.Cost),
			Kind:  KindBuild,
			Rect:  Rect{sx, y, inner, buttonHeight},
			Cmd:   command.Build(t),
			Cost:  def.Cost,
		})
		y += buttonHeight + buttonGap
	}
	return h
}

// SidebarX is the left edge of the sidebar
func (h *HUD) SidebarX() int {
	return h.ScreenW - SidebarWidth
}

// InfoRect is the selection panel at the bottom of the sidebar
func (h *HUD) InfoRect() Rect {
	return Rect{h.SidebarX(), h.ScreenH - InfoHeight, SidebarWidth, InfoHeight}
}

// InSidebar reports whether the pixel is over the panel or the top bar
func (h *HUD) InSidebar(x, y int) bool {
	return y < TopBarHeight || x >= h.SidebarX()
}

// HandleClick returns the command under the pixel. Clicks anywhere on the
// panel are consumed even when they miss a button.
func (h *HUD) HandleClick(x, y int) (command.Command, bool) {
	for _, b := range h.Buttons {
		if b.Rect.Contains(x, y) {
			return b.Cmd, true
		}
	}
	return command.Command{}, false
}
