package domain

import (
	"encoding/json"
	"testing"
)

func TestVehicleKind(t *testing.T) {
	t.Run("MaxSpeed", func(t *testing.T) {
		expected := map[VehicleKind]int{
			KindMoto:      3,
			KindTurisme:   4,
			KindEsportiu:  5,
			KindFurgoneta: 2,
			KindCamio:     1,
		}
		for kind, speed := range expected {
			if kind.MaxSpeed() != speed {
				t.Errorf("expected %s max speed %d but found %d", kind, speed, kind.MaxSpeed())
			}
		}
		if len(Kinds) != len(expected) {
			t.Errorf("expected %d kinds but found %d", len(expected), len(Kinds))
		}
	})
	t.Run("ParseKind", func(t *testing.T) {
		k, err := ParseKind("furgoneta")
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if k != KindFurgoneta {
			t.Errorf("expected kind '%s' but found '%s'", KindFurgoneta, k)
		}
		if _, err := ParseKind("tractor"); err == nil {
			t.Error("expected an error for an unknown kind")
		}
	})
	t.Run("InvalidKindDoesNotMarshal", func(t *testing.T) {
		if _, err := json.Marshal(VehicleKind(42)); err == nil {
			t.Error("expected an error marshalling an unknown kind")
		}
	})
}

func TestNewVehicle(t *testing.T) {
	v := NewVehicle(3, KindCamio, Color{R: 1, A: 0.7})
	if v.Name != "camio3" {
		t.Errorf("expected name '%s' but found '%s'", "camio3", v.Name)
	}
	if v.Position != StartLine || v.Finished {
		t.Errorf("expected a fresh vehicle on the start line but found %+v", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	var decoded Vehicle
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if decoded != v {
		t.Errorf("expected %+v but found %+v", v, decoded)
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{Color{R: 1, G: 1, B: 1, A: 1}, "#ffffff"},
		{Color{R: 1, G: 0, B: 0, A: 0.5}, "#800000"},
		{Color{R: 2, G: -1, B: 0, A: 1}, "#ff0000"},
	}
	for _, tt := range tests {
		if hex := tt.color.Hex(); hex != tt.expected {
			t.Errorf("expected hex '%s' but found '%s'", tt.expected, hex)
		}
	}
}
