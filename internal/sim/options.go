package sim

//go:generate mockgen -destination=mock/mock_sim.go -package=simmock github.com/vovakirdan/runtime-zero/internal/sim TuningSource,Reporter,EventSink

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/physics"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// TuningSource supplies the resolved movement tuning. The simulation
// reads it every tick, so live edits apply on the next tick.
type TuningSource interface {
	Tuning() config.MovementTuning
}

// StaticTuning is a TuningSource that never changes.
type StaticTuning config.MovementTuning

// Tuning implements TuningSource.
func (s StaticTuning) Tuning() config.MovementTuning {
	return config.MovementTuning(s)
}

// Options configures a run. Only Stage is required.
type Options struct {
	Stage      *stage.Definition
	Difficulty config.Difficulty
	Mirror     bool

	// Tuning defaults to the built-in tuning for Difficulty.
	Tuning TuningSource
	// Profile defaults to the built-in profile for Difficulty.
	Profile *config.DifficultyProfile
	// HorizontalScale multiplies the move axis; zero means +1.
	HorizontalScale float64

	// Collider defaults to a fresh resolv-backed collider.
	Collider physics.Collider
	Logger   *log.Logger
	Events   EventSink
	Reporter Reporter
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Difficulty == "" {
		o.Difficulty = config.DifficultyStandard
	}
	if o.Tuning == nil {
		o.Tuning = StaticTuning(config.DefaultTuningFile().Resolve(o.Difficulty, nil))
	}
	if o.Profile == nil {
		p := config.DefaultProfile(o.Difficulty)
		o.Profile = &p
	}
	if o.HorizontalScale == 0 {
		o.HorizontalScale = 1
	}
	if o.Collider == nil {
		o.Collider = physics.NewResolv()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Events == nil {
		o.Events = discardSink{}
	}
	if o.Reporter == nil {
		o.Reporter = discardReporter{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
