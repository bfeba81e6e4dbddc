package sim

import "github.com/vovakirdan/runtime-zero/internal/core"

// Stepper advances a simulation by one tick.
type Stepper interface {
	Step(in core.InputFrame, dtMs float64) StepResult
}

// FixedStepper drives a Stepper at a fixed tick length from variable
// frame times. Press edges are delivered on the first sub-step only; a
// frame too short to run any tick carries its edges to the next frame.
type FixedStepper struct {
	target   Stepper
	stepMs   float64
	maxSteps int

	accMs   float64
	pending core.InputFrame
}

// NewFixedStepper wraps target. maxSteps bounds catch-up after a stall;
// time beyond it is dropped.
func NewFixedStepper(target Stepper, stepMs float64, maxSteps int) *FixedStepper {
	if stepMs <= 0 {
		stepMs = 1000.0 / 60.0
	}
	if maxSteps <= 0 {
		maxSteps = 5
	}
	return &FixedStepper{
		target:   target,
		stepMs:   stepMs,
		maxSteps: maxSteps,
		pending:  core.NewInputFrame(),
	}
}

// Advance consumes frameMs of wall time and runs as many fixed ticks as
// fit. It returns the last tick's result and the number of ticks run.
func (f *FixedStepper) Advance(in core.InputFrame, frameMs float64) (StepResult, int) {
	for a, v := range in.Pressed {
		if v {
			f.pending.Press(a)
		}
	}
	f.accMs += frameMs

	var last StepResult
	steps := 0
	for f.accMs >= f.stepMs && steps < f.maxSteps {
		frame := in.WithoutEdges()
		if steps == 0 {
			for a := range f.pending.Pressed {
				frame.Press(a)
			}
			f.pending.Clear()
		}
		last = f.target.Step(frame, f.stepMs)
		f.accMs -= f.stepMs
		steps++
		if last.Status == StatusFinished {
			f.accMs = 0
			break
		}
	}
	if steps == f.maxSteps && f.accMs >= f.stepMs {
		f.accMs = 0
	}
	return last, steps
}
