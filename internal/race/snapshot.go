package race

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bcdxn/carrera/internal/domain"
)

var ErrInvalidSnapshot = errors.New("invalid race snapshot")

// Snapshot is a point-in-time copy of a race; it is what gets persisted between sessions and what
// the spectator feed broadcasts.
type Snapshot struct {
	RaceID      string           `json:"raceId"`
	Tick        int              `json:"tick"`
	Vehicles    []domain.Vehicle `json:"vehicles"`
	Running     bool             `json:"running"`
	FinishOrder []string         `json:"finishOrder"`
}

// Complete reports whether every vehicle on a non-empty grid has finished.
func (s Snapshot) Complete() bool {
	return len(s.Vehicles) > 0 && len(s.FinishOrder) == len(s.Vehicles)
}

func (r *Race) Snapshot() Snapshot {
	return Snapshot{
		RaceID:      r.id,
		Tick:        r.ticks,
		Vehicles:    r.Vehicles(),
		Running:     r.running,
		FinishOrder: r.FinishOrder(),
	}
}

// Restore replaces the race state with the given snapshot. The snapshot must describe a state the
// race could have reached on its own; otherwise the race is left untouched and an error wrapping
// ErrInvalidSnapshot is returned. A restored race is always paused.
func (r *Race) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.id = s.RaceID
	r.ticks = s.Tick
	r.vehicles = slices.Clone(s.Vehicles)
	r.finishOrder = slices.Clone(s.FinishOrder)
	if r.vehicles == nil {
		r.vehicles = make([]domain.Vehicle, 0)
	}
	if r.finishOrder == nil {
		r.finishOrder = make([]string, 0)
	}
	r.running = false
	r.logger.Debug("restored race", "race", r.id, "tick", r.ticks, "finished", len(r.finishOrder))
	return nil
}

// Validate checks the snapshot against the invariants a race maintains.
func (s Snapshot) Validate() error {
	if len(s.Vehicles) != 0 && len(s.Vehicles) != GridSize {
		return fmt.Errorf("%w: expected 0 or %d vehicles but found %d", ErrInvalidSnapshot, GridSize, len(s.Vehicles))
	}
	finished := make(map[string]bool, len(s.Vehicles))
	for i, v := range s.Vehicles {
		if v.ID != i+1 {
			return fmt.Errorf("%w: vehicle %d has id %d", ErrInvalidSnapshot, i+1, v.ID)
		}
		if !v.Kind.Valid() {
			return fmt.Errorf("%w: vehicle %d has unknown kind", ErrInvalidSnapshot, v.ID)
		}
		if v.Position < domain.StartLine || v.Position > domain.FinishLine {
			return fmt.Errorf("%w: vehicle %d is at position %d", ErrInvalidSnapshot, v.ID, v.Position)
		}
		if v.Finished != (v.Position == domain.FinishLine) {
			return fmt.Errorf("%w: vehicle %d at position %d has finished=%t", ErrInvalidSnapshot, v.ID, v.Position, v.Finished)
		}
		if _, dup := finished[v.Name]; dup || v.Name == "" {
			return fmt.Errorf("%w: vehicle %d has a missing or duplicate name %q", ErrInvalidSnapshot, v.ID, v.Name)
		}
		finished[v.Name] = v.Finished
	}
	seen := make(map[string]bool, len(s.FinishOrder))
	for _, name := range s.FinishOrder {
		if !finished[name] {
			return fmt.Errorf("%w: %q is in the finish sequence but has not finished", ErrInvalidSnapshot, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q appears twice in the finish sequence", ErrInvalidSnapshot, name)
		}
		seen[name] = true
	}
	for name, done := range finished {
		if done && !seen[name] {
			return fmt.Errorf("%w: %q has finished but is missing from the finish sequence", ErrInvalidSnapshot, name)
		}
	}
	if s.Tick < 0 {
		return fmt.Errorf("%w: negative tick %d", ErrInvalidSnapshot, s.Tick)
	}
	return nil
}

// SaveFile writes the snapshot to path as JSON, replacing any previous content.
func SaveFile(path string, s Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding race snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("error writing race snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot written by SaveFile. A missing file yields an error matching
// os.ErrNotExist.
func LoadFile(path string) (Snapshot, error) {
	var s Snapshot
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("error reading race snapshot: %w", err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return s, s.Validate()
}
