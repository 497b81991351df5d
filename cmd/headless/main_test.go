package main

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeReplay(t *testing.T, cmds ...command.Command) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.replay")
	rec, err := command.NewReplayRecorder(path, 1)
	if err != nil {
		t.Fatalf("NewReplayRecorder: %v", err)
	}
	for _, c := range cmds {
		if err := rec.Record(c); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestRunPrintsReport(t *testing.T) {
	var out bytes.Buffer
	rs, err := run(options{ticks: 20, seed: 1}, &out, quietLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rs.ticksRun != 20 || rs.paused {
		t.Fatalf("runStats = %+v", rs)
	}
	report := out.String()
	for _, want := range []string{"tick 20 ", "Resources: 1000", "player-unit-1", "enemy-base"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunAppliesReplayAtItsTick(t *testing.T) {
	build := command.Build(core.BuildingBarracks)
	build.Tick = 5
	bad := command.Spawn(core.UnitType("mech"))
	bad.Tick = 5
	path := writeReplay(t, command.Spawn(core.UnitTank), build, bad)

	var out bytes.Buffer
	rs, err := run(options{ticks: 10, seed: 7, replayPath: path}, &out, quietLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rs.applied != 2 || rs.rejected != 1 {
		t.Fatalf("applied=%d rejected=%d, want 2 and 1", rs.applied, rs.rejected)
	}
	if !strings.Contains(out.String(), "Resources: 650") {
		t.Fatalf("expected 1000-150-200 resources left:\n%s", out.String())
	}
}

func TestRunStopsWhenReplayPauses(t *testing.T) {
	pause := command.TogglePause()
	pause.Tick = 3
	path := writeReplay(t, pause)

	var out bytes.Buffer
	rs, err := run(options{ticks: 50, seed: 1, replayPath: path}, &out, quietLogger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !rs.paused || rs.ticksRun != 3 {
		t.Fatalf("runStats = %+v, want paused after 3 ticks", rs)
	}
	if !strings.HasPrefix(out.String(), "Stopped at tick 3") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if _, err := run(options{ticks: -1}, io.Discard, quietLogger()); err == nil {
		t.Errorf("expected error for negative ticks")
	}
	missing := filepath.Join(t.TempDir(), "absent.replay")
	if _, err := run(options{ticks: 1, replayPath: missing}, io.Discard, quietLogger()); err == nil {
		t.Errorf("expected error for missing replay")
	}
}

func TestRunUsesRecordedSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeded.replay")
	rec, err := command.NewReplayRecorder(path, 99)
	if err != nil {
		t.Fatalf("NewReplayRecorder: %v", err)
	}
	live, err := session.New(nil, session.WithSeed(99), session.WithRecorder(rec), session.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	for i := 0; i < 4; i++ {
		_ = live.BuildStructure(core.BuildingBarracks)
		live.Tick()
	}
	for live.World.TickCount < 10 {
		live.Tick()
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var out bytes.Buffer
	if _, err := run(options{ticks: 10, replayPath: path}, &out, quietLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := out.String(), live.Report(); got != want {
		t.Fatalf("replayed report differs:\n%s\nwant:\n%s", got, want)
	}
}
