package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/bcdxn/carrera/internal/config"
	"github.com/bcdxn/carrera/internal/feed"
	"github.com/bcdxn/carrera/internal/logger"
	"github.com/bcdxn/carrera/internal/tui"
)

func main() {
	cfg, err := config.FromFlags("spectate", os.Args[1:])
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
	defer f.Close()

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()
	// Create a wait group that ensures both client *and* TUI exit gracefully if either exits
	wg := sync.WaitGroup{}
	// create client responsible for listening to snapshots from the race feed
	client := feed.New(feed.WithWSBaseURL(cfg.FeedURL), feed.WithLogger(l))
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.Listen(ctx)
		l.Debug("client exited")
	}()
	// create TUI
	track := tui.NewTrack(tui.WithSpectator(), tui.WithContext(ctx), tui.WithLogger(l))
	wg.Add(1)
	go func() {
		defer cancelCtx() // quitting the TUI ends the session
		defer wg.Done()
		track.Run()
		l.Debug("tui exited")
	}()
	// pass snapshots between client and TUI
	for {
		select {
		case <-ctx.Done():
			l.Debug("context done")
			wg.Wait()
			return
		case err, ok := <-client.Done():
			if !ok {
				// closed without an error; keep the TUI up until the user quits
				l.Debug("race feed closed")
				track.Send(tui.DoneMsg{Err: errors.New("connection closed by the race host")})
				wg.Wait()
				return
			}
			l.Error("client exited with error", "err", err)
			track.Send(tui.DoneMsg{Err: err})
		case s := <-client.Snapshots():
			track.Send(tui.SnapshotMsg(s))
		}
	}
}
