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
	"strings"
	"time"

	"github.com/bcdxn/carrera/internal/config"
	"github.com/bcdxn/carrera/internal/feed"
	"github.com/bcdxn/carrera/internal/logger"
	"github.com/bcdxn/carrera/internal/race"
	"github.com/bcdxn/carrera/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.FromFlags("carrera", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	l, f, err := logger.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = run(cfg, l)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, l *slog.Logger) error {
	ctx, cancelCtx := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelCtx()

	opts := []race.Option{race.WithLogger(l)}
	if cfg.Seed != 0 {
		opts = append(opts, race.WithSeed(cfg.Seed))
	}
	r := race.New(opts...)
	restore(cfg, r, l)

	hub := feed.NewHub(feed.WithHubLogger(l))
	if cfg.FeedAddr != "" {
		mux := http.NewServeMux()
		mux.Handle(feed.Path, hub)
		srv := &http.Server{Addr: cfg.FeedAddr, Handler: mux}
		go func() {
			defer cancelCtx() // a feed that cannot serve ends the session
			l.Info("serving spectator feed", "addr", cfg.FeedAddr, "path", feed.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error("spectator feed exited with error", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	var err error
	if cfg.Headless {
		err = headless(ctx, cfg, r, hub)
	} else {
		err = interactive(ctx, cfg, r, hub, l)
	}
	if err != nil {
		l.Error("race session exited with error", "err", err)
		return err
	}
	return persist(cfg, r, l)
}

// interactive hands the race to the TUI until the user quits.
func interactive(ctx context.Context, cfg config.Config, r *race.Race, hub *feed.Hub, l *slog.Logger) error {
	track := tui.NewTrack(
		tui.WithRace(r),
		tui.WithContext(ctx),
		tui.WithLogger(l),
		tui.WithTickInterval(cfg.TickInterval),
		tui.WithPublisher(hub.Publish),
	)
	_, err := track.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		l.Debug("tui exited on interrupt")
		return nil
	}
	l.Debug("tui exited")
	return err
}

// headless runs the race to completion on a ticker and prints the finish sequence.
func headless(ctx context.Context, cfg config.Config, r *race.Race, hub *feed.Hub) error {
	if !r.CanRun() {
		r.Create()
	}
	hub.Publish(r.Snapshot())
	printed := len(r.FinishOrder())
	err := race.Run(ctx, r, cfg.TickInterval, func(s race.Snapshot) {
		hub.Publish(s)
		for ; printed < len(s.FinishOrder); printed++ {
			fmt.Printf("tick %3d  %d. %s\n", s.Tick, printed+1, s.FinishOrder[printed])
		}
	})
	if errors.Is(err, context.Canceled) {
		fmt.Println("race paused")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Finish: %s\n", strings.Join(r.FinishOrder(), ", "))
	return nil
}

// restore loads the saved race, if any. A broken state file is logged and ignored so a fresh race
// can always be started.
func restore(cfg config.Config, r *race.Race, l *slog.Logger) {
	if cfg.StateFile == "" {
		return
	}
	s, err := race.LoadFile(cfg.StateFile)
	if errors.Is(err, os.ErrNotExist) {
		l.Debug("no saved race", "path", cfg.StateFile)
		return
	}
	if err == nil {
		err = r.Restore(s)
	}
	if err != nil {
		l.Warn("ignoring saved race", "path", cfg.StateFile, "err", err)
		return
	}
	l.Info("restored race", "path", cfg.StateFile, "race", r.ID())
}

func persist(cfg config.Config, r *race.Race, l *slog.Logger) error {
	if cfg.StateFile == "" {
		return nil
	}
	r.Pause()
	if err := race.SaveFile(cfg.StateFile, r.Snapshot()); err != nil {
		l.Error("error saving race", "path", cfg.StateFile, "err", err)
		return err
	}
	l.Debug("saved race", "path", cfg.StateFile)
	return nil
}
