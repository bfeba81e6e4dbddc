package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/physics"
	"github.com/vovakirdan/runtime-zero/internal/registry"
	"github.com/vovakirdan/runtime-zero/internal/replay"
	"github.com/vovakirdan/runtime-zero/internal/sim"
	"github.com/vovakirdan/runtime-zero/internal/stage"
	"github.com/vovakirdan/runtime-zero/internal/storage"
)

// maxCatchUpSteps bounds the fixed-step catch-up after a slow frame.
const maxCatchUpSteps = 5

// App bundles the collaborators every screen needs. Store may be nil,
// in which case runs are not persisted.
type App struct {
	Catalog *registry.Catalog
	Store   *storage.Store
	Tuning  config.TuningFile
	Logger  *log.Logger
	Config  core.RuntimeConfig

	// RecordDir, when set, receives a replay file for every run.
	RecordDir string
	// Collider names the collision backend; empty uses the default.
	Collider string
}

// RunRequest selects what to play.
type RunRequest struct {
	StageID    string
	Difficulty config.Difficulty
	Mirror     bool
}

// LiveRun is one live run together with its driver.
type LiveRun struct {
	Request  RunRequest
	Def      stage.Definition
	Sim      *sim.Sim
	Resolver *config.Resolver
	Events   *sim.EventLog

	driver   sim.Stepper
	fixed    *sim.FixedStepper
	recorder *replay.Recorder
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.New(io.Discard)
	}
	return a.Logger
}

// NewRun builds a run for req. Stored user overrides for the difficulty
// are applied on top of the tuning file.
func (a *App) NewRun(req RunRequest) (*LiveRun, error) {
	def, err := a.Catalog.Get(req.StageID)
	if err != nil {
		return nil, err
	}
	if req.Difficulty == "" {
		req.Difficulty = config.DifficultyStandard
	}

	var user config.TuningOverride
	if a.Store != nil {
		if user, err = a.Store.Overrides(req.Difficulty); err != nil {
			a.logger().Warn("could not load tuning overrides", "error", err)
		}
	}
	resolver := config.NewResolver(a.Tuning, req.Difficulty, user)
	profile := resolver.Profile()

	var reporter sim.Reporter
	if a.Store != nil {
		reporter = storage.NewRunReporter(a.Store, a.logger())
	}

	collider, err := physics.NewCollider(a.Collider)
	if err != nil {
		return nil, err
	}

	events := &sim.EventLog{}
	s := sim.New(sim.Options{
		Stage:      &def,
		Difficulty: req.Difficulty,
		Mirror:     req.Mirror,
		Tuning:     resolver,
		Profile:    &profile,
		Collider:   collider,
		Logger:     a.logger(),
		Events:     events,
		Reporter:   reporter,
	})

	r := &LiveRun{
		Request:  req,
		Def:      def,
		Sim:      s,
		Resolver: resolver,
		Events:   events,
		driver:   s,
	}
	if a.RecordDir != "" {
		r.recorder = replay.NewRecorder(s, replay.Header{
			StageID:         def.ID,
			Difficulty:      req.Difficulty,
			Mirror:          req.Mirror,
			HorizontalScale: 1,
			Tuning:          resolver.Tuning(),
			Profile:         profile,
			RecordedAt:      time.Now(),
		})
		r.driver = r.recorder
	}
	if a.Config.FixedStep {
		r.fixed = sim.NewFixedStepper(r.driver, a.Config.TickMillis(), maxCatchUpSteps)
	}
	return r, nil
}

// Advance feeds one presenter frame of frameMs to the run.
func (r *LiveRun) Advance(in core.InputFrame, frameMs float64) sim.StepResult {
	if r.fixed != nil {
		res, _ := r.fixed.Advance(in, frameMs)
		return res
	}
	return r.driver.Step(in, frameMs)
}

// SaveRecording writes the replay of a finished or abandoned run to dir
// and returns the file path. It returns "" when the run is not recorded.
func (r *LiveRun) SaveRecording(dir string) (string, error) {
	if r.recorder == nil {
		return "", nil
	}
	rec := r.recorder.Finish(r.Sim.Snapshot())
	name := fmt.Sprintf("%s_%s_%s.rzr", r.Def.ID, r.Request.Difficulty, r.Sim.RunID().String()[:8])
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create replay directory: %w", err)
	}
	if err := replay.Save(path, rec); err != nil {
		return "", err
	}
	return path, nil
}
