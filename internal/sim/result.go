package sim

import (
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/runtime-zero/internal/config"
)

// Reason is why a run terminated.
type Reason string

const (
	ReasonGoal        Reason = "goal"
	ReasonNullPointer Reason = "null_pointer" // fatal fall
	ReasonGlitch      Reason = "glitch"       // fatal combat death
	ReasonExit        Reason = "exit"         // abandoned by the player
)

// RunResult is the immutable summary of a finished run.
type RunResult struct {
	RunID       uuid.UUID         `json:"run_id" msgpack:"run_id"`
	StageID     string            `json:"stage_id" msgpack:"stage_id"`
	StageName   string            `json:"stage_name" msgpack:"stage_name"`
	Success     bool              `json:"success" msgpack:"success"`
	Reason      Reason            `json:"reason" msgpack:"reason"`
	ElapsedMs   float64           `json:"elapsed_ms" msgpack:"elapsed_ms"`
	Difficulty  config.Difficulty `json:"difficulty" msgpack:"difficulty"`
	Mirror      bool              `json:"mirror" msgpack:"mirror"`
	Cycles      int               `json:"cycles" msgpack:"cycles"`
	Gems        int               `json:"gems" msgpack:"gems"`
	GemsTotal   int               `json:"gems_total" msgpack:"gems_total"`
	Hits        int               `json:"hits" msgpack:"hits"`
	BackupsUsed int               `json:"backups_used" msgpack:"backups_used"`
	Score       int               `json:"score" msgpack:"score"`
	Rank        Rank              `json:"rank" msgpack:"rank"`
	FinishedAt  time.Time         `json:"finished_at" msgpack:"finished_at"`
}

// Reporter receives the result of each run exactly once.
type Reporter interface {
	Report(RunResult)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(RunResult)

// Report implements Reporter.
func (f ReporterFunc) Report(r RunResult) { f(r) }

type discardReporter struct{}

func (discardReporter) Report(RunResult) {}
