package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun(stageID string, score int, elapsed float64, at time.Time) sim.RunResult {
	return sim.RunResult{
		RunID:      uuid.New(),
		StageID:    stageID,
		StageName:  "Boot Sector",
		Success:    score > 0,
		Reason:     sim.ReasonGoal,
		ElapsedMs:  elapsed,
		Difficulty: config.DifficultyStandard,
		Gems:       2,
		GemsTotal:  3,
		Score:      score,
		Rank:       sim.RankFor(score, score > 0),
		FinishedAt: at,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveRun(t *testing.T) {
	store := openTestStore(t)

	at := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	run := testRun("stage-1", 88, 41250.5, at)
	run.Mirror = true
	run.Hits = 2
	run.BackupsUsed = 1
	run.Cycles = 64

	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(run.RunID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}

	if got.StageID != "stage-1" || got.Score != 88 || got.Rank != sim.RankA {
		t.Errorf("unexpected run: %+v", got)
	}
	if !got.Mirror || !got.Success || got.Reason != sim.ReasonGoal {
		t.Errorf("flags not restored: %+v", got)
	}
	if got.ElapsedMs != 41250.5 || got.Hits != 2 || got.BackupsUsed != 1 || got.Cycles != 64 {
		t.Errorf("counters not restored: %+v", got)
	}
	if !got.FinishedAt.Equal(at) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, at)
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(uuid.New())
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown run, got %+v", got)
	}
}

func TestStoreSaveRunRequiresID(t *testing.T) {
	store := openTestStore(t)

	run := testRun("stage-1", 50, 1000, time.Now())
	run.RunID = uuid.Nil
	if err := store.SaveRun(run); err == nil {
		t.Error("expected error for a run without id")
	}
}

func TestStoreTopRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	runs := []sim.RunResult{
		testRun("stage-1", 70, 50000, now),
		testRun("stage-1", 95, 42000, now),
		testRun("stage-1", 95, 39000, now),
		testRun("stage-1", 40, 60000, now),
		testRun("stage-2", 99, 30000, now),
	}
	for _, r := range runs {
		if err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("stage-1", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(top))
	}

	// Equal scores break ties on the faster time.
	if top[0].Score != 95 || top[0].ElapsedMs != 39000 {
		t.Errorf("first = %d/%v, want 95/39000", top[0].Score, top[0].ElapsedMs)
	}
	if top[1].Score != 95 || top[1].ElapsedMs != 42000 {
		t.Errorf("second = %d/%v, want 95/42000", top[1].Score, top[1].ElapsedMs)
	}
	if top[2].Score != 70 {
		t.Errorf("third = %d, want 70", top[2].Score)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		// Sub-second offsets must still order correctly.
		at := base.Add(time.Duration(i) * 300 * time.Millisecond)
		if err := store.SaveRun(testRun("stage-1", 10*i+10, 1000, at)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].Score != 40 || recent[1].Score != 30 {
		t.Errorf("Runs not newest first: %d, %d", recent[0].Score, recent[1].Score)
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("stage-1")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for an unplayed stage, got %d", best)
	}

	store.SaveRun(testRun("stage-1", 64, 1000, time.Now()))
	store.SaveRun(testRun("stage-1", 81, 1000, time.Now()))

	best, err = store.BestScore("stage-1")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 81 {
		t.Errorf("Expected best score 81, got %d", best)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(testRun("stage-1", 60, 1000, time.Now()))
	store.SaveRun(testRun("stage-2", 60, 1000, time.Now()))

	if err := store.ClearRuns("stage-1"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	one, _ := store.TopRuns("stage-1", 10)
	two, _ := store.TopRuns("stage-2", 10)
	if len(one) != 0 {
		t.Errorf("Expected stage-1 cleared, got %d runs", len(one))
	}
	if len(two) != 1 {
		t.Errorf("Expected stage-2 untouched, got %d runs", len(two))
	}
}

func TestStoreStageStats(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	failed := testRun("stage-1", 0, 12000, now)
	failed.Success = false
	failed.Reason = sim.ReasonNullPointer

	store.SaveRun(testRun("stage-1", 80, 45000, now))
	store.SaveRun(testRun("stage-1", 72, 40000, now))
	store.SaveRun(failed)

	stats, err := store.AllStageStats()
	if err != nil {
		t.Fatalf("AllStageStats() failed: %v", err)
	}

	st, ok := stats["stage-1"]
	if !ok {
		t.Fatal("missing stats for stage-1")
	}
	if st.Runs != 3 || st.Clears != 2 || st.BestScore != 80 {
		t.Errorf("unexpected stats: %+v", st)
	}
	// The failed run is faster but does not count as a clear.
	if st.BestTimeMs != 40000 {
		t.Errorf("BestTimeMs = %v, want 40000", st.BestTimeMs)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreOverrides(t *testing.T) {
	store := openTestStore(t)

	stored, err := store.SaveOverride(config.DifficultyStandard, "coyote_time_ms", 10_000)
	if err != nil {
		t.Fatalf("SaveOverride() failed: %v", err)
	}
	field, _ := config.FieldByKey("coyote_time_ms")
	if stored != field.Max {
		t.Errorf("stored = %v, want clamped %v", stored, field.Max)
	}

	if _, err := store.SaveOverride(config.DifficultyStandard, "not_a_field", 1); err == nil {
		t.Error("expected error for an unknown key")
	}

	o, err := store.Overrides(config.DifficultyStandard)
	if err != nil {
		t.Fatalf("Overrides() failed: %v", err)
	}
	if len(o) != 1 || o["coyote_time_ms"] != field.Max {
		t.Errorf("unexpected overrides: %v", o)
	}

	other, _ := store.Overrides(config.DifficultyMean)
	if len(other) != 0 {
		t.Errorf("overrides leaked across difficulties: %v", other)
	}

	if err := store.ResetOverrides(config.DifficultyStandard); err != nil {
		t.Fatalf("ResetOverrides() failed: %v", err)
	}
	o, _ = store.Overrides(config.DifficultyStandard)
	if len(o) != 0 {
		t.Errorf("expected no overrides after reset, got %v", o)
	}
}

func TestStoreSaveOverridesReplaces(t *testing.T) {
	store := openTestStore(t)

	store.SaveOverride(config.DifficultyChill, "gravity", 1500)
	err := store.SaveOverrides(config.DifficultyChill, config.TuningOverride{
		"walk_speed": 310,
		"bogus":      1,
	})
	if err != nil {
		t.Fatalf("SaveOverrides() failed: %v", err)
	}

	o, err := store.Overrides(config.DifficultyChill)
	if err != nil {
		t.Fatalf("Overrides() failed: %v", err)
	}
	if _, ok := o["gravity"]; ok {
		t.Error("old override should be replaced")
	}
	if _, ok := o["bogus"]; ok {
		t.Error("unknown key should be dropped")
	}
	if _, ok := o["walk_speed"]; !ok {
		t.Errorf("walk_speed missing: %v", o)
	}
}

func TestRunReporterSavesAndChains(t *testing.T) {
	store := openTestStore(t)

	var forwarded []sim.RunResult
	rep := NewRunReporter(store, nil).Then(sim.ReporterFunc(func(r sim.RunResult) {
		forwarded = append(forwarded, r)
	}))

	run := testRun("stage-3", 77, 30000, time.Now())
	rep.Report(run)

	got, err := store.RunByID(run.RunID)
	if err != nil || got == nil {
		t.Fatalf("run not saved: %v", err)
	}
	if len(forwarded) != 1 || forwarded[0].RunID != run.RunID {
		t.Errorf("next reporter not called once: %v", forwarded)
	}
}

func TestRunReporterSurvivesStorageError(t *testing.T) {
	store := openTestStore(t)

	called := false
	rep := NewRunReporter(store, nil).Then(sim.ReporterFunc(func(sim.RunResult) { called = true }))

	run := testRun("stage-3", 77, 30000, time.Now())
	run.RunID = uuid.Nil
	rep.Report(run)

	if !called {
		t.Error("next reporter must run even when saving fails")
	}
}
