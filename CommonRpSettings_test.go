package realphysics4d

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	settings := MakeRpSettings()
	if err := settings.Validate(); err != nil {
		t.Fatalf("default settings rejected: %v", err)
	}

	if settings.MaxContactCandidates != RP_maxContactCandidates {
		t.Errorf("MaxContactCandidates = %d", settings.MaxContactCandidates)
	}
	if settings.Gravity != (mgl64.Vec3{0, -9.81, 0}) {
		t.Errorf("Gravity = %v", settings.Gravity)
	}
}

func TestParseRpSettings(t *testing.T) {
	doc := []byte(`
velocity_iterations: 12
warm_starting: false
gravity: [0, 0, -10]
`)

	settings, err := ParseRpSettings(doc)
	if err != nil {
		t.Fatalf("ParseRpSettings: %v", err)
	}

	if settings.VelocityIterations != 12 {
		t.Errorf("VelocityIterations = %d, want 12", settings.VelocityIterations)
	}
	if settings.WarmStarting {
		t.Errorf("WarmStarting not overridden")
	}
	if settings.Gravity != (mgl64.Vec3{0, 0, -10}) {
		t.Errorf("Gravity = %v", settings.Gravity)
	}

	// Keys that are absent keep their default.
	if settings.PositionIterations != 3 || settings.Epsilon != RP_epsilon {
		t.Errorf("defaults lost: %+v", settings)
	}
}

func TestParseRpSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{name: "negative epsilon", doc: "epsilon: -1", invalid: true},
		{name: "zero candidates", doc: "max_contact_candidates: 0", invalid: true},
		{name: "too many candidates", doc: "max_contact_candidates: 64", invalid: true},
		{name: "no velocity iterations", doc: "velocity_iterations: 0", invalid: true},
		{name: "beta above one", doc: "beta: 1.5", invalid: true},
		{name: "negative slop", doc: "linear_slop: -0.1", invalid: true},
		{name: "right angle tolerance", doc: "feature_angular_tolerance: 1.6", invalid: true},
		{name: "malformed", doc: "velocity_iterations: [1, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := ParseRpSettings([]byte(tt.doc))
			if err == nil {
				t.Fatalf("accepted %q", tt.doc)
			}

			if got := errors.Is(err, ErrRpInvalidSettings); got != tt.invalid {
				t.Errorf("errors.Is(ErrRpInvalidSettings) = %t, want %t (%v)", got, tt.invalid, err)
			}

			if settings != MakeRpSettings() {
				t.Errorf("failed parse did not return the defaults")
			}
		})
	}
}

func TestLoadRpSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("position_iterations: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadRpSettings(path)
	if err != nil {
		t.Fatalf("LoadRpSettings: %v", err)
	}
	if settings.PositionIterations != 7 {
		t.Errorf("PositionIterations = %d, want 7", settings.PositionIterations)
	}

	if _, err := LoadRpSettings(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
