package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/runtime-zero/internal/sim"
)

// RunReporter persists every finished run. Storage failures are logged and
// never reach the simulation.
type RunReporter struct {
	store  *Store
	logger *log.Logger
	next   sim.Reporter
}

// NewRunReporter creates a reporter writing to store. A nil logger
// discards output.
func NewRunReporter(store *Store, logger *log.Logger) *RunReporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RunReporter{store: store, logger: logger}
}

// Then chains another reporter that runs after the result is saved,
// typically the presenter's result screen.
func (r *RunReporter) Then(next sim.Reporter) *RunReporter {
	r.next = next
	return r
}

// Report implements sim.Reporter.
func (r *RunReporter) Report(res sim.RunResult) {
	if err := r.store.SaveRun(res); err != nil {
		r.logger.Error("save run", "run", res.RunID, "stage", res.StageID, "err", err)
	} else {
		r.logger.Debug("run saved", "run", res.RunID, "stage", res.StageID, "score", res.Score, "rank", res.Rank)
	}
	if r.next != nil {
		r.next.Report(res)
	}
}

var _ sim.Reporter = (*RunReporter)(nil)
