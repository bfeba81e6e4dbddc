package stage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
)

func loadBuiltin(t *testing.T) []Definition {
	t.Helper()
	defs, err := EmbeddedLoader().LoadAll()
	if err != nil {
		t.Fatalf("EmbeddedLoader().LoadAll() error: %v", err)
	}
	return defs
}

func TestEmbeddedStages(t *testing.T) {
	defs := loadBuiltin(t)
	if len(defs) != 8 {
		t.Fatalf("loaded %d stages, expected 8", len(defs))
	}

	targets := []float64{72000, 78000, 76000, 78000, 82000, 86000, 90000, 98000}
	for i, d := range defs {
		if d.Index != i+1 {
			t.Errorf("stage %d has index %d", i, d.Index)
		}
		if d.TimeTargetMs != targets[i] {
			t.Errorf("%s time target = %v, expected %v", d.ID, d.TimeTargetMs, targets[i])
		}
		if len(d.Gems) != 3 {
			t.Errorf("%s has %d gems, expected 3", d.ID, len(d.Gems))
		}
		if d.Size.Width != DefaultWidth || d.Size.Height != DefaultHeight {
			t.Errorf("%s size = %+v", d.ID, d.Size)
		}
		if d.Goal != core.NewRect(3128, 520, 44, 120) {
			t.Errorf("%s goal = %+v", d.ID, d.Goal)
		}
		if len(d.Platforms) < len(sharedPlatforms) {
			t.Errorf("%s is missing shared platforms", d.ID)
		}
	}

	// Stage 1 authors four cycle lines: 7 + 5 + 5 + 7 tokens.
	if n := len(defs[0].Cycles); n != 24 {
		t.Errorf("stage-1 cycles = %d, expected 24", n)
	}
	if c := defs[0].Cycles[1]; c.ID != "s1-a-1" || c.At != core.V(280, 618) || c.Value != 1 {
		t.Errorf("stage-1 second cycle = %+v", c)
	}
}

func TestSharedPlatformsOffset(t *testing.T) {
	odd := SharedPlatforms(1)
	even := SharedPlatforms(2)

	// For index 1, platforms 2, 5 and 8 are raised by 10.
	if odd[2].Y != sharedPlatforms[2].Y-10 {
		t.Errorf("odd stage platform 2 y = %v", odd[2].Y)
	}
	if odd[0].Y != sharedPlatforms[0].Y {
		t.Errorf("odd stage platform 0 should not move, y = %v", odd[0].Y)
	}
	for i := range even {
		if even[i] != sharedPlatforms[i] {
			t.Errorf("even stage platform %d moved: %+v", i, even[i])
		}
	}
}

func TestEnemiesForDifficulty(t *testing.T) {
	defs := loadBuiltin(t)
	s1 := defs[0]

	tests := []struct {
		d        config.Difficulty
		expected int
	}{
		{config.DifficultyChill, 2},
		{config.DifficultyStandard, 3},
		{config.DifficultyMean, 4},
	}
	for _, tc := range tests {
		if got := len(s1.EnemiesFor(tc.d)); got != tc.expected {
			t.Errorf("EnemiesFor(%s) = %d, expected %d", tc.d, got, tc.expected)
		}
	}
}

func TestMirroredIsInvolution(t *testing.T) {
	for _, d := range loadBuiltin(t) {
		twice := d.Mirrored().Mirrored()
		if !reflect.DeepEqual(twice, d) {
			t.Errorf("%s: mirroring twice changed the definition", d.ID)
		}
	}
}

func TestMirroredFlipsGeometry(t *testing.T) {
	d := loadBuiltin(t)[0]
	m := d.Mirrored()

	if m.Spawn != core.V(3200-120, 650) {
		t.Errorf("mirrored spawn = %v", m.Spawn)
	}
	if m.Goal.X != 3200-3128-44 {
		t.Errorf("mirrored goal x = %v", m.Goal.X)
	}
	e := m.Enemies[0]
	if e.PatrolMinX != 3200-750 || e.PatrolMaxX != 3200-540 {
		t.Errorf("mirrored patrol = [%v, %v]", e.PatrolMinX, e.PatrolMaxX)
	}
	if e.Direction != -1 {
		t.Errorf("mirrored direction = %v, expected -1", e.Direction)
	}
}

func TestSnapCheckpoint(t *testing.T) {
	platforms := []core.Rect{
		core.NewRect(0, 680, 430, 80),
		core.NewRect(900, 500, 200, 24),
		core.NewRect(960, 300, 100, 20), // well above the checkpoint
	}

	tests := []struct {
		name       string
		cp         Checkpoint
		wantY      float64
		wantAnchor core.Vec2
	}{
		{
			name:       "floating above platform snaps down",
			cp:         Checkpoint{ID: "a", Rect: core.NewRect(980, 340, 16, 120)},
			wantY:      380,
			wantAnchor: core.V(988, 500),
		},
		{
			name:       "beyond platform edge is pulled onto it",
			cp:         Checkpoint{ID: "b", Rect: core.NewRect(440, 560, 16, 120)},
			wantY:      560,
			wantAnchor: core.V(422, 680),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SnapCheckpoint(tc.cp, platforms)
			if got.Rect.Y != tc.wantY {
				t.Errorf("snapped y = %v, expected %v", got.Rect.Y, tc.wantY)
			}
			if got.Anchor != tc.wantAnchor {
				t.Errorf("anchor = %v, expected %v", got.Anchor, tc.wantAnchor)
			}
		})
	}

	lone := SnapCheckpoint(Checkpoint{ID: "c", Rect: core.NewRect(10, 10, 16, 100)}, nil)
	if lone.Rect != core.NewRect(10, 10, 16, 100) || lone.Anchor != core.V(18, 110) {
		t.Errorf("without platforms = %+v", lone)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "layout: shared\n"},
		{"duplicate gem", "id: x\nlayout: shared\ngems:\n  - {id: g, x: 1, y: 1}\n  - {id: g, x: 2, y: 2}\n"},
		{"bad enemy kind", "id: x\nlayout: shared\nenemies:\n  - {id: e, kind: dragon, x: 1, y: 1}\n"},
		{"bad drag", "id: x\nlayout: shared\nwater_zones:\n  - {id: w, rect: {x: 0, y: 0, width: 5, height: 5}, drag: 1.5}\n"},
		{"bad axis", "id: x\nlayout: shared\nmoving_platforms:\n  - {id: m, rect: {x: 0, y: 0, width: 5, height: 5}, axis: z}\n"},
		{"no size", "id: x\ngoal: {x: 0, y: 0, width: 5, height: 5}\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestLoaderFromDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := "id: custom-1\nindex: 9\nname: Custom\nlayout: shared\ntime_target_ms: 50000\n"
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "custom-1" || defs[0].TimeTargetMs != 50000 {
		t.Fatalf("loaded %+v", defs)
	}
	if defs[0].Title() != "9. Custom" {
		t.Errorf("Title() = %q", defs[0].Title())
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("LoadAll should fail on a broken file")
	}
}
