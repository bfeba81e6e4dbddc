package stage

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Checkpoint snapping weights.
const (
	snapHorizontalWeight = 1.5
	snapRiseTolerance    = 24  // px a platform may sit above the checkpoint base without penalty
	snapRisePenalty      = 600 // added score for platforms well above the checkpoint
)

// SnappedCheckpoint is a checkpoint moved onto its supporting platform.
// Anchor is the floor point a respawning player stands on.
type SnappedCheckpoint struct {
	Checkpoint
	Anchor core.Vec2
}

// SnapCheckpoint places cp on the nearest eligible platform. Candidates are
// scored by weighted horizontal distance from the checkpoint centre plus
// vertical distance between the platform top and the checkpoint base;
// platforms significantly higher than the checkpoint are penalized. With
// no platforms the authored rect is kept and the anchor is its base.
func SnapCheckpoint(cp Checkpoint, platforms []core.Rect) SnappedCheckpoint {
	cx := cp.Rect.Center().X
	base := cp.Rect.Bottom()

	best := -1
	bestScore := math.Inf(1)
	for i, p := range platforms {
		dx := 0.0
		if cx < p.X {
			dx = p.X - cx
		} else if cx > p.Right() {
			dx = cx - p.Right()
		}
		dy := p.Y - base
		score := dx*snapHorizontalWeight + math.Abs(dy)
		if dy < -snapRiseTolerance {
			score += snapRisePenalty
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return SnappedCheckpoint{Checkpoint: cp, Anchor: core.V(cx, base)}
	}

	p := platforms[best]
	snapped := cp
	snapped.Rect.Y = p.Y - cp.Rect.H
	maxX := p.Right() - cp.Rect.W
	if maxX < p.X {
		maxX = p.X
	}
	snapped.Rect.X = core.ClampF(cp.Rect.X, p.X, maxX)

	return SnappedCheckpoint{
		Checkpoint: snapped,
		Anchor:     core.V(snapped.Rect.Center().X, p.Y),
	}
}

// SnapCheckpoints snaps every checkpoint of d against its static platforms.
func (d *Definition) SnapCheckpoints() []SnappedCheckpoint {
	out := make([]SnappedCheckpoint, len(d.Checkpoints))
	for i, cp := range d.Checkpoints {
		out[i] = SnapCheckpoint(cp, d.Platforms)
	}
	return out
}
