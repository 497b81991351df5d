package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/session"
)

type options struct {
	ticks      int
	seed       int64
	configPath string
	replayPath string
}

type runStats struct {
	ticksRun int
	applied  int
	rejected int
	paused   bool
}

func main() {
	var opts options
	var level string
	flag.IntVar(&opts.ticks, "ticks", 600, "ticks to simulate")
	flag.Int64Var(&opts.seed, "seed", 0, "placement RNG seed (0 = the replay's seed, or 1)")
	flag.StringVar(&opts.configPath, "config", "", "balance YAML file")
	flag.StringVar(&opts.replayPath, "replay", "", "replay file to apply")
	flag.StringVar(&level, "log-level", "warn", "debug|info|warn|error")
	flag.Parse()

	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	if _, err := run(opts, os.Stdout, log); err != nil {
		log.Error("headless run failed", "error", err)
		os.Exit(1)
	}
}

// run simulates opts.ticks ticks, applying replay commands stamped with each
// tick before it runs, then writes the report to out
func run(opts options, out io.Writer, log *slog.Logger) (runStats, error) {
	var rs runStats
	if opts.ticks < 0 {
		return rs, fmt.Errorf("ticks must be >= 0, got %d", opts.ticks)
	}
	bal, err := config.Load(opts.configPath)
	if err != nil {
		return rs, err
	}
	var replay *command.Replay
	if opts.replayPath != "" {
		if replay, err = command.LoadReplay(opts.replayPath); err != nil {
			return rs, err
		}
	}
	seed := opts.seed
	if seed == 0 {
		seed = 1
		if replay != nil {
			seed = replay.Seed
		}
	}
	s, err := session.New(bal, session.WithSeed(seed), session.WithLogger(log))
	if err != nil {
		return rs, err
	}

	for rs.ticksRun < opts.ticks {
		if replay != nil {
			for _, cmd := range replay.CommandsForTick(s.World.TickCount) {
				if err := s.Apply(cmd); err != nil {
					rs.rejected++
					log.Debug("replayed command rejected", "cmd", cmd.String(), "error", err)
					continue
				}
				rs.applied++
			}
		}
		if !s.Tick() {
			rs.paused = true
			break
		}
		rs.ticksRun++
	}

	if rs.paused {
		fmt.Fprintf(out, "Stopped at tick %d: game paused\n", s.World.TickCount)
	}
	_, err = io.WriteString(out, s.Report())
	return rs, err
}
