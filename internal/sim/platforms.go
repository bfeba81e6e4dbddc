package sim

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// warningFraction is the final share of a collapse countdown that shows
// the warning state.
const warningFraction = 0.4

// CollapseState is the lifecycle of a collapsing platform.
type CollapseState uint8

const (
	CollapseStable CollapseState = iota
	CollapseCountdown
	CollapseGone
)

// String returns the snapshot name of the state.
func (s CollapseState) String() string {
	switch s {
	case CollapseCountdown:
		return "countdown"
	case CollapseGone:
		return "gone"
	default:
		return "stable"
	}
}

type collapser struct {
	def     stage.CollapsingPlatform
	state   CollapseState
	timerMs float64
}

// solid reports whether the platform currently collides.
func (c *collapser) solid() bool {
	return c.state != CollapseGone
}

// warning reports whether the countdown is in its final portion.
func (c *collapser) warning() bool {
	return c.state == CollapseCountdown && c.timerMs <= c.def.CollapseDelayMs*warningFraction
}

// update advances the lifecycle. It returns true on the tick the platform
// comes back so the caller can push overlapping actors out.
func (c *collapser) update(dtMs float64, stoodOn bool) (restored bool) {
	switch c.state {
	case CollapseStable:
		if stoodOn {
			c.state = CollapseCountdown
			c.timerMs = c.def.CollapseDelayMs
		}
	case CollapseCountdown:
		tick(&c.timerMs, dtMs)
		if c.timerMs <= 0 {
			c.state = CollapseGone
			c.timerMs = c.def.RespawnMs
		}
	case CollapseGone:
		tick(&c.timerMs, dtMs)
		if c.timerMs <= 0 {
			c.state = CollapseStable
			return true
		}
	}
	return false
}

type mover struct {
	def  stage.MovingPlatform
	rect core.Rect
}

// at returns the platform rect at elapsed stage time.
func (m *mover) at(elapsedMs float64) core.Rect {
	offset := math.Sin(elapsedMs/1000*m.def.Speed+m.def.Phase) * m.def.Travel
	r := m.def.Rect
	if m.def.Axis == stage.AxisY {
		r.Y += offset
	} else {
		r.X += offset
	}
	return r
}
