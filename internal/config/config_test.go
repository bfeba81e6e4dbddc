package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	got, err := ParseTuning(defaultTuningYAML)
	if err != nil {
		t.Fatalf("ParseTuning(embedded) error: %v", err)
	}
	want := DefaultTuningFile()

	if got.Base != want.Base {
		t.Errorf("embedded base = %+v, expected %+v", got.Base, want.Base)
	}
	for _, d := range Difficulties {
		if got.Profile(d) != want.Profile(d) {
			t.Errorf("profile %s = %+v, expected %+v", d, got.Profile(d), want.Profile(d))
		}
		if !reflect.DeepEqual(got.Resolve(d, nil), want.Resolve(d, nil)) {
			t.Errorf("resolved tuning for %s differs between embedded YAML and defaults", d)
		}
	}
}

func TestResolveLayers(t *testing.T) {
	file := DefaultTuningFile()

	tests := []struct {
		name       string
		difficulty Difficulty
		user       TuningOverride
		check      func(MovementTuning) bool
	}{
		{
			name:       "standard keeps base",
			difficulty: DifficultyStandard,
			check:      func(m MovementTuning) bool { return m.CoyoteTimeMs == 120 && m.WalkSpeed == 300 },
		},
		{
			name:       "mean overrides coyote",
			difficulty: DifficultyMean,
			check:      func(m MovementTuning) bool { return m.CoyoteTimeMs == 80 && m.Gravity == 1950 },
		},
		{
			name:       "user wins over difficulty",
			difficulty: DifficultyChill,
			user:       TuningOverride{"coyote_time_ms": 30},
			check:      func(m MovementTuning) bool { return m.CoyoteTimeMs == 30 && m.JumpBufferMs == 170 },
		},
		{
			name:       "unknown key ignored",
			difficulty: DifficultyStandard,
			user:       TuningOverride{"moon_gravity": 1},
			check:      func(m MovementTuning) bool { return m == DefaultTuning() },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := file.Resolve(tc.difficulty, tc.user)
			if !tc.check(got) {
				t.Errorf("Resolve(%s) = %+v", tc.difficulty, got)
			}
		})
	}
}

func TestClampAndSnap(t *testing.T) {
	walk, _ := FieldByKey("walk_speed")
	coyote, _ := FieldByKey("coyote_time_ms")
	look, _ := FieldByKey("camera_look_ahead")

	tests := []struct {
		name     string
		field    TuningField
		in       float64
		expected float64
	}{
		{"snap down", walk, 333, 330},
		{"snap up", walk, 336, 340},
		{"clamp high", walk, 1000, 500},
		{"clamp low", walk, 10, 120},
		{"zero allowed", coyote, -5, 0},
		{"fine step", look, 122.4, 120},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.field.ClampAndSnap(tc.in); got != tc.expected {
				t.Errorf("ClampAndSnap(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestResolverLiveOverride(t *testing.T) {
	r := NewResolver(DefaultTuningFile(), DifficultyStandard, TuningOverride{"gravity": 9999, "shot_speed": 1})

	if g := r.Tuning().Gravity; g != 2800 {
		t.Errorf("sanitized gravity = %v, expected 2800", g)
	}
	if s := r.Tuning().ShotSpeed; s != 610 {
		t.Errorf("non-editable shot_speed should be dropped, got %v", s)
	}

	stored, err := r.Set("jump_buffer_ms", 47)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if stored != 50 || r.Tuning().JumpBufferMs != 50 {
		t.Errorf("Set stored %v, tuning %v, expected 50", stored, r.Tuning().JumpBufferMs)
	}

	if _, err := r.Set("nope", 1); err == nil {
		t.Error("Set on unknown field should fail")
	}

	r.Reset()
	if r.Tuning() != DefaultTuning() || len(r.Overrides()) != 0 {
		t.Error("Reset should restore the difficulty layer")
	}
}

func TestDifficultyOrder(t *testing.T) {
	tests := []struct {
		current, min Difficulty
		expected     bool
	}{
		{DifficultyChill, "", true},
		{DifficultyChill, DifficultyStandard, false},
		{DifficultyStandard, DifficultyStandard, true},
		{DifficultyMean, DifficultyStandard, true},
		{DifficultyStandard, DifficultyMean, false},
	}
	for _, tc := range tests {
		if got := CanSpawn(tc.current, tc.min); got != tc.expected {
			t.Errorf("CanSpawn(%s, %q) = %v, expected %v", tc.current, tc.min, got, tc.expected)
		}
	}

	if d, err := ParseDifficulty("MEAN"); err != nil || d != DifficultyMean {
		t.Errorf("ParseDifficulty(MEAN) = %v, %v", d, err)
	}
	if _, err := ParseDifficulty("brutal"); err == nil {
		t.Error("ParseDifficulty(brutal) should fail")
	}
	if DifficultyMean.Next() != DifficultyChill {
		t.Error("Next should wrap around")
	}
	if DifficultyChill.Title() != "Chill" {
		t.Errorf("Title() = %q", DifficultyChill.Title())
	}
}

func TestLoadTuningCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte("base:\n  walk_speed: 333\ndifficulty_overrides:\n  mean:\n    coyote_time_ms: 40\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning error: %v", err)
	}
	if cfg.Base.WalkSpeed != 333 || cfg.Base.RunSpeed != 420 {
		t.Errorf("base = %+v, expected walk 333 over defaults", cfg.Base)
	}
	if m := cfg.Resolve(DifficultyMean, nil); m.CoyoteTimeMs != 40 {
		t.Errorf("mean coyote = %v, expected 40", m.CoyoteTimeMs)
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTuning with a missing custom path should fail")
	}
}
