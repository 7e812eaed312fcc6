package race

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/bcdxn/carrera/internal/domain"
	"github.com/google/uuid"
)

const (
	GridSize            = 5                      // GridSize is the number of vehicles created for each race
	DefaultTickInterval = 300 * time.Millisecond // DefaultTickInterval is the delay between ticks
	badgeAlpha          = 0.7
)

// New returns a race with an empty grid. Call Create to line up vehicles.
//
// A Race is not safe for concurrent use; it is owned by a single loop (the TUI update loop or Run)
// and mutated only there.
func New(opts ...Option) *Race {
	r := &Race{
		vehicles:    make([]domain.Vehicle, 0),
		finishOrder: make([]string, 0),
		logger:      slog.Default(),
	}
	// apply given options
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

type Race struct {
	id          string
	ticks       int
	vehicles    []domain.Vehicle
	running     bool
	finishOrder []string
	rng         *rand.Rand
	logger      *slog.Logger
}

/* Race Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type Option = func(r *Race)

// WithSeed makes every random draw of the race reproducible; primarily used for testing.
func WithSeed(seed uint64) Option {
	return func(r *Race) { r.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger configures the logger to use within the race.
func WithLogger(l *slog.Logger) Option {
	return func(r *Race) { r.logger = l }
}

/* Race API
------------------------------------------------------------------------------------------------- */

// Create replaces the grid with GridSize fresh vehicles of random kind and colour, clears the
// finish sequence and leaves the race paused.
func (r *Race) Create() {
	r.id = uuid.NewString()
	r.ticks = 0
	r.running = false
	r.finishOrder = make([]string, 0, GridSize)
	r.vehicles = make([]domain.Vehicle, GridSize)
	for i := range r.vehicles {
		kind := domain.Kinds[r.rng.IntN(len(domain.Kinds))]
		r.vehicles[i] = domain.NewVehicle(i+1, kind, r.randomColor())
	}
	r.logger.Debug("created grid", "race", r.id, "vehicles", len(r.vehicles))
}

// Start sets the race running. It reports whether the race is now running as a result of this
// call: starting a running race, an empty grid or a completed race does nothing.
func (r *Race) Start() bool {
	if r.running || !r.CanRun() {
		return false
	}
	r.running = true
	r.logger.Debug("race started", "race", r.id, "tick", r.ticks)
	return true
}

// Pause stops the race; it takes effect at the next tick boundary.
func (r *Race) Pause() {
	if r.running {
		r.logger.Debug("race paused", "race", r.id, "tick", r.ticks)
	}
	r.running = false
}

// Toggle pauses a running race and starts a paused one, mirroring the single RUN/PAUSE control.
// It reports whether the race was started.
func (r *Race) Toggle() bool {
	if r.running {
		r.Pause()
		return false
	}
	return r.Start()
}

// Tick advances every unfinished vehicle by a random increment between 1 and its kind's maximum
// speed and returns the names of the vehicles that finished during this tick, in grid order.
// A paused race does not move.
func (r *Race) Tick() []string {
	if !r.running {
		return nil
	}
	r.ticks++
	var arrived []string
	for i := range r.vehicles {
		v := &r.vehicles[i]
		if v.Finished {
			continue
		}
		v.Position += 1 + r.rng.IntN(v.Kind.MaxSpeed())
		if v.Position >= domain.FinishLine {
			v.Position = domain.FinishLine
			v.Finished = true
			r.finishOrder = append(r.finishOrder, v.Name)
			arrived = append(arrived, v.Name)
			r.logger.Debug("vehicle arrived", "race", r.id, "name", v.Name, "place", len(r.finishOrder))
		}
	}
	if !r.hasUnfinished() {
		r.running = false
		r.logger.Info("race complete", "race", r.id, "ticks", r.ticks, "finish", r.finishOrder)
	}
	return arrived
}

// ID identifies the current grid; it changes on every Create.
func (r *Race) ID() string {
	return r.id
}

func (r *Race) Running() bool {
	return r.running
}

// CanRun reports whether the RUN control should be enabled: there is a grid and at least one
// vehicle has not finished.
func (r *Race) CanRun() bool {
	return len(r.vehicles) > 0 && r.hasUnfinished()
}

// Complete reports whether every vehicle on a non-empty grid has finished.
func (r *Race) Complete() bool {
	return len(r.vehicles) > 0 && !r.hasUnfinished()
}

// Vehicles returns a copy of the grid.
func (r *Race) Vehicles() []domain.Vehicle {
	return slices.Clone(r.vehicles)
}

// FinishOrder returns a copy of the finish sequence.
func (r *Race) FinishOrder() []string {
	return slices.Clone(r.finishOrder)
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

func (r *Race) hasUnfinished() bool {
	return slices.ContainsFunc(r.vehicles, func(v domain.Vehicle) bool { return !v.Finished })
}

func (r *Race) randomColor() domain.Color {
	return domain.Color{
		R: r.rng.Float32(),
		G: r.rng.Float32(),
		B: r.rng.Float32(),
		A: badgeAlpha,
	}
}
