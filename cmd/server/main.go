package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1siamBot/tactical-command/engine/config"
	"github.com/1siamBot/tactical-command/engine/server"
	"github.com/1siamBot/tactical-command/engine/session"
)

func main() {
	envFile := flag.String("env", ".env", "environment file (optional)")
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	settings, err := config.ServerSettingsFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: settings.LogLevel}))
	slog.SetDefault(log)

	if err := run(settings, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(settings config.ServerSettings, log *slog.Logger) error {
	bal, err := config.Load(settings.BalancePath)
	if err != nil {
		return err
	}
	s, err := session.New(bal, session.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	room := server.NewRoom(s, settings.BroadcastEvery, log)
	go room.Run(ctx)

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           server.NewHandler(room, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", settings.Addr, "balance", settings.BalancePath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-room.Done()
	return nil
}
