package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"dario.cat/mergo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything the commands need to wire up a race session. Zero values mean "use the
// default" and are filled in by Resolve.
type Config struct {
	TickInterval time.Duration // TickInterval is the delay between two ticks of the race loop
	Seed         uint64        // Seed makes races reproducible; 0 picks a random seed
	LogFile      string        // LogFile receives the structured logs since the TUI owns stdout
	Debug        bool          // Debug lowers the log level to debug
	StateFile    string        // StateFile, if set, is restored on start and written on exit
	FeedAddr     string        // FeedAddr, if set, is the listen address of the spectator feed
	FeedURL      string        // FeedURL is the websocket base URL a spectator connects to
	Headless     bool          // Headless runs a single race without the TUI
}

func Default() Config {
	return Config{
		TickInterval: 300 * time.Millisecond,
		LogFile:      "carrera.log",
		FeedURL:      "ws://localhost:8080",
	}
}

// Resolve fills every zero field of c from Default and validates the result.
func Resolve(c Config) (Config, error) {
	if err := mergo.Merge(&c, Default()); err != nil {
		return c, fmt.Errorf("error merging default configuration: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, found %s", ErrInvalidConfig, c.TickInterval)
	}
	if c.LogFile == "" {
		return fmt.Errorf("%w: log file must be set", ErrInvalidConfig)
	}
	return nil
}

// FromFlags parses args with a flag set named after the command and resolves the result against
// the defaults.
func FromFlags(name string, args []string) (Config, error) {
	var c Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.DurationVar(&c.TickInterval, "tick", 0, "delay between race ticks (default 300ms)")
	fs.Uint64Var(&c.Seed, "seed", 0, "random seed for reproducible races (default random)")
	fs.StringVar(&c.LogFile, "log", "", "log file (default carrera.log)")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&c.StateFile, "state", "", "file to restore the race from and save it to on exit")
	fs.StringVar(&c.FeedAddr, "feed", "", "listen address for the spectator feed, e.g. :8080")
	fs.StringVar(&c.FeedURL, "url", "", "spectator feed URL (default ws://localhost:8080)")
	fs.BoolVar(&c.Headless, "headless", false, "run a single race without the TUI")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.TickInterval < 0 {
		return c, fmt.Errorf("%w: tick interval must be positive, found %s", ErrInvalidConfig, c.TickInterval)
	}
	return Resolve(c)
}
