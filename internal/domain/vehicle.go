package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	StartLine  = 0   // StartLine is the position every vehicle is created at
	FinishLine = 100 // FinishLine is the position at which a vehicle is considered to have arrived
)

const (
	KindMoto VehicleKind = iota
	KindTurisme
	KindEsportiu
	KindFurgoneta
	KindCamio
)

// Kinds lists every vehicle kind in declaration order; random draws index into it.
var Kinds = []VehicleKind{KindMoto, KindTurisme, KindEsportiu, KindFurgoneta, KindCamio}

var kindSpecs = map[VehicleKind]struct {
	name     string
	maxSpeed int
	asset    string
	glyph    string
}{
	KindMoto:      {"MOTO", 3, "moto", "🛵"},
	KindTurisme:   {"TURISME", 4, "turisme", "🚗"},
	KindEsportiu:  {"ESPORTIU", 5, "esportiu", "🏎"},
	KindFurgoneta: {"FURGONETA", 2, "furgo", "🚐"},
	KindCamio:     {"CAMIO", 1, "camio", "🚚"},
}

// VehicleKind is one of the fixed set of vehicle types that can take part in a race. The kind
// decides how far a vehicle may advance in a single tick and how it is drawn.
type VehicleKind int

// MaxSpeed is the largest increment a vehicle of this kind can draw in one tick.
func (k VehicleKind) MaxSpeed() int {
	return kindSpecs[k].maxSpeed
}

// Asset is the name of the image used to draw the kind.
func (k VehicleKind) Asset() string {
	return kindSpecs[k].asset
}

// Glyph is the terminal stand-in for the kind's image.
func (k VehicleKind) Glyph() string {
	return kindSpecs[k].glyph
}

func (k VehicleKind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

func (k VehicleKind) String() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.name
	}
	return fmt.Sprintf("VehicleKind(%d)", int(k))
}

// MarshalText encodes the kind by name so snapshots stay readable and stable across reorderings.
func (k VehicleKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown vehicle kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *VehicleKind) UnmarshalText(b []byte) error {
	kind, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind returns the kind with the given name, ignoring case.
func ParseKind(name string) (VehicleKind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(kindSpecs[k].name, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown vehicle kind %q", name)
}

// Color is the RGBA colour of a vehicle's number badge; components are in the range [0,1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Hex renders the colour composited over a black background as a #rrggbb string, since terminals
// have no notion of transparency.
func (c Color) Hex() string {
	channel := func(v float32) int {
		x := math.Round(float64(clamp01(v)*clamp01(c.A)) * 255)
		return int(x)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// NewVehicle returns a vehicle on the start line; the name is derived from the kind and id, e.g.
// "moto1".
func NewVehicle(id int, kind VehicleKind, color Color) Vehicle {
	return Vehicle{
		ID:       id,
		Kind:     kind,
		Position: StartLine,
		Color:    color,
		Name:     fmt.Sprintf("%s%d", strings.ToLower(kind.String()), id),
	}
}

// Vehicle is a single participant in a race.
type Vehicle struct {
	ID       int         `json:"id"`       // ID is the sequential number painted on the badge
	Kind     VehicleKind `json:"kind"`     // Kind decides the maximum speed and the glyph
	Position int         `json:"position"` // Position is the distance covered, 0 to FinishLine
	Color    Color       `json:"color"`    // Color of the number badge, fixed at creation
	Name     string      `json:"name"`     // Name is what appears in the finish sequence
	Finished bool        `json:"finished"` // Finished is set once the vehicle reaches FinishLine
}
