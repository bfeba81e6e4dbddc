package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

type recordingStepper struct {
	frames []core.InputFrame
	deltas []float64
}

func (r *recordingStepper) Step(in core.InputFrame, dtMs float64) StepResult {
	r.frames = append(r.frames, in)
	r.deltas = append(r.deltas, dtMs)
	return StepResult{Status: StatusActive}
}

func TestFixedStepperSubsteps(t *testing.T) {
	rec := &recordingStepper{}
	f := NewFixedStepper(rec, 10, 5)

	in := core.NewInputFrame()
	in.Press(core.ActionJump)
	in.Hold(core.ActionRight)

	_, n := f.Advance(in, 35)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{10, 10, 10}, rec.deltas)
	assert.True(t, rec.frames[0].Has(core.ActionJump))
	assert.False(t, rec.frames[1].Has(core.ActionJump))
	assert.True(t, rec.frames[2].IsHeld(core.ActionRight))
}

func TestFixedStepperCarriesEdges(t *testing.T) {
	rec := &recordingStepper{}
	f := NewFixedStepper(rec, 10, 5)

	in := core.NewInputFrame()
	in.Press(core.ActionFire)
	_, n := f.Advance(in, 4)
	assert.Zero(t, n)

	_, n = f.Advance(core.NewInputFrame(), 6)
	assert.Equal(t, 1, n)
	assert.True(t, rec.frames[0].Has(core.ActionFire))
}

func TestFixedStepperDropsBacklog(t *testing.T) {
	rec := &recordingStepper{}
	f := NewFixedStepper(rec, 10, 2)

	_, n := f.Advance(core.NewInputFrame(), 500)
	assert.Equal(t, 2, n)

	_, n = f.Advance(core.NewInputFrame(), 5)
	assert.Zero(t, n)
}
