package hud

import (
	"testing"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
)

func center(r Rect) (int, int) { return r.X + r.W/2, r.Y + r.H/2 }

func TestLayoutHasEveryControl(t *testing.T) {
	h := New(1020, 830, config.Default())

	var flow, spawn, build int
	for _, b := range h.Buttons {
		switch b.Kind {
		case KindFlow:
			flow++
		case KindSpawn:
			spawn++
		case KindBuild:
			build++
		}
		if !h.InSidebar(center(b.Rect)) {
			t.Errorf("button %q outside sidebar: %+v", b.Label, b.Rect)
		}
	}
	if flow != 3 || spawn != 3 || build != 3 {
		t.Fatalf("flow=%d spawn=%d build=%d, want 3 each", flow, spawn, build)
	}
	for _, b := range h.Buttons {
		if b.Cmd.Type == command.CmdBuild && b.Cmd.Param == string(core.BuildingBase) {
			t.Fatalf("base must not have a build button")
		}
	}
}

func TestHandleClickMapsButtons(t *testing.T) {
	h := New(1020, 830, config.Default())
	for _, b := range h.Buttons {
		cmd, ok := h.HandleClick(center(b.Rect))
		if !ok || cmd != b.Cmd {
			t.Errorf("click on %q = %v, %v; want %v", b.Label, cmd, ok, b.Cmd)
		}
	}
	if _, ok := h.HandleClick(100, 400); ok {
		t.Errorf("board click returned a command")
	}
	if h.InSidebar(100, 400) {
		t.Errorf("board pixel reported as sidebar")
	}
}

func TestButtonEnabledByCost(t *testing.T) {
	h := New(1020, 830, config.Default())
	for _, b := range h.Buttons {
		if b.Cmd.Type == command.CmdSpawn && b.Cmd.Param == string(core.UnitTank) {
			if !b.Enabled(150) || b.Enabled(149) {
				t.Fatalf("tank button enabled state wrong for cost %d", b.Cost)
			}
			return
		}
	}
	t.Fatal("no tank button")
}

func TestFlowButtonsReflectState(t *testing.T) {
	h := New(1020, 830, config.Default())
	for _, b := range h.Buttons {
		switch b.Cmd.Type {
		case command.CmdTogglePause:
			if !b.Active(true, 1) || b.Active(false, 1) {
				t.Errorf("pause button state wrong")
			}
		case command.CmdSetSpeed:
			if b.Active(false, b.Speed) != true || b.Active(false, b.Speed+1) {
				t.Errorf("speed button %q state wrong", b.Label)
			}
		}
	}
}

func TestHealthColorThresholds(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{1, "good"},
		{0.51, "good"},
		{0.5, "warn"},
		{0.26, "warn"},
		{0.25, "low"},
		{0, "low"},
	}
	names := map[string]any{"good": healthGood, "warn": healthWarn, "low": healthLow}
	for _, c := range cases {
		if got := HealthColor(c.ratio); got != names[c.want] {
			t.Errorf("HealthColor(%v) = %v, want %s", c.ratio, got, c.want)
		}
	}
	if TeamColor(core.TeamEnemy) == TeamColor(core.TeamPlayer) {
		t.Errorf("teams share a colour")
	}
}

func TestTeamColorUnpacksRGBA(t *testing.T) {
	got := TeamColor(core.TeamPlayer)
	if got.R != 0x0E || got.G != 0xA5 || got.B != 0xE9 || got.A != 0xFF {
		t.Fatalf("TeamColor(player) = %v", got)
	}
}
