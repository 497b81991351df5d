package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/grid"
	"github.com/1siamBot/tactical-command/engine/hud"
	"github.com/1siamBot/tactical-command/engine/input"
	"github.com/1siamBot/tactical-command/engine/render"
	"github.com/1siamBot/tactical-command/engine/session"
	"github.com/1siamBot/tactical-command/engine/ui"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Game implements ebiten.Game interface
type Game struct {
	session  *session.Session
	layout   grid.Layout
	hud      *hud.HUD
	panel    *ui.Panel
	renderer *render.Renderer
	input    *input.InputState
	log      *slog.Logger

	screenW, screenH int
	last             time.Time
}

func NewGame(s *session.Session, sprites *render.SpriteSet) *Game {
	layout := grid.NewLayout(s.Balance.GridSize, 0, hud.TopBarHeight)
	sw := layout.PixelSize() + hud.SidebarWidth
	sh := layout.PixelSize() + hud.TopBarHeight
	h := hud.New(sw, sh, s.Balance)
	g := &Game{
		session:  s,
		layout:   layout,
		hud:      h,
		panel:    ui.NewPanel(h),
		renderer: render.NewRenderer(layout, sprites),
		input:    input.NewInputState(),
		log:      s.Logger(),
		screenW:  sw,
		screenH:  sh,
		last:     time.Now(),
	}

	s.Events().On(core.EvtBuildingComplete, func(e core.Event) {
		if e.Team == core.TeamPlayer {
			g.panel.Flash(e.Detail + " complete")
		}
	})
	s.Events().On(core.EvtReinforcements, func(e core.Event) {
		g.panel.Flash("Enemy reinforcements!")
	})
	return g
}

func (g *Game) Update() error {
	g.input.Update()
	g.panel.Update()

	switch g.input.Action {
	case input.ActionTogglePause:
		g.apply(command.TogglePause())
	case input.ActionSpeed1:
		g.apply(command.SetSpeed(g.speedAt(0)))
	case input.ActionSpeed2:
		g.apply(command.SetSpeed(g.speedAt(1)))
	case input.ActionClearSelection:
		g.apply(command.ClearSelection())
	case input.ActionCopyReport:
		g.copyReport()
	}

	g.handleMouse()

	now := time.Now()
	g.session.Advance(now.Sub(g.last))
	g.last = now
	return nil
}

// speedAt maps number keys onto the configured speeds
func (g *Game) speedAt(i int) float64 {
	speeds := g.session.Balance.Speeds
	if i >= len(speeds) {
		i = len(speeds) - 1
	}
	return speeds[i]
}

func (g *Game) handleMouse() {
	in := g.input
	mx, my := in.MouseX, in.MouseY

	if in.DragFinished() {
		g.selectInRect(in.DragRect())
		return
	}
	if in.RightJustPressed {
		if cell, ok := g.layout.CellAt(mx, my); ok && len(g.session.World.Selected) > 0 {
			g.apply(command.Move(cell))
		}
		return
	}
	if !in.Clicked() {
		return
	}

	if g.hud.InSidebar(mx, my) {
		if cmd, ok := g.hud.HandleClick(mx, my); ok {
			g.apply(cmd)
		}
		return
	}
	w := g.session.World
	if u := g.layout.UnitAt(w.LivingUnits(core.TeamPlayer), mx, my); u != nil {
		g.apply(command.Select(u.ID, in.Shift))
		return
	}
	cell, ok := g.layout.CellAt(mx, my)
	if !ok {
		return
	}
	if len(w.Selected) == 0 {
		return
	}
	g.apply(command.Move(cell))
}

// selectInRect replaces the selection with the player units inside the box
func (g *Game) selectInRect(x1, y1, x2, y2 int, active bool) {
	if !active {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	additive := g.input.Shift
	if !additive {
		g.apply(command.ClearSelection())
	}
	for _, u := range g.session.World.LivingUnits(core.TeamPlayer) {
		cx, cy := g.layout.CellCenter(u.Position)
		if int(cx) < x1 || int(cx) > x2 || int(cy) < y1 || int(cy) > y2 {
			continue
		}
		if g.session.World.IsSelected(u.ID) {
			continue
		}
		g.apply(command.Select(u.ID, true))
	}
}

// apply runs a player action. Rejected actions are logged by the session and
// otherwise ignored.
func (g *Game) apply(cmd command.Command) {
	_ = g.session.Apply(cmd)
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.session.Report()); err != nil {
		g.log.Warn("copy report", "error", err)
		g.panel.Flash("clipboard unavailable")
		return
	}
	g.panel.Flash("report copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session.World)
	if !g.hud.InSidebar(g.input.MouseX, g.input.MouseY) {
		g.renderer.DrawHover(screen, g.input.MouseX, g.input.MouseY)
	}
	if x1, y1, x2, y2, ok := g.input.DragRect(); ok && g.input.Dragging {
		drawSelectionBox(screen, x1, y1, x2, y2)
	}
	g.panel.Draw(screen, g.session.World, g.input.MouseX, g.input.MouseY)
}

func drawSelectionBox(screen *ebiten.Image, x1, y1, x2, y2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	vector.StrokeRect(screen, float32(x1), float32(y1), float32(x2-x1), float32(y2-y1), 1, hud.ColorSelection, false)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

func main() {
	cfgPath := flag.String("config", "", "balance YAML file")
	seed := flag.Int64("seed", 0, "placement RNG seed (0 = time based)")
	record := flag.String("record", "", "write a command replay to this file")
	assets := flag.String("assets", "assets", "sprite directory")
	level := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()

	lvl, err := config.ParseLogLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	if err := run(*cfgPath, *seed, *record, *assets, logger); err != nil {
		log.Fatal(err)
	}
}

func run(cfgPath string, seed int64, record, assets string, log *slog.Logger) error {
	bal, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []session.Option{session.WithLogger(log), session.WithSeed(seed)}
	if record != "" {
		rec, err := command.NewReplayRecorder(record, seed)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error("close replay", "error", err)
			}
		}()
		opts = append(opts, session.WithRecorder(rec))
	}
	s, err := session.New(bal, opts...)
	if err != nil {
		return err
	}

	game := NewGame(s, render.LoadSprites(assets))
	ebiten.SetWindowSize(game.screenW, game.screenH)
	ebiten.SetWindowTitle("Tactical Command")
	return ebiten.RunGame(game)
}
