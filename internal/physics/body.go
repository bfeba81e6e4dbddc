package physics

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// maxStepDistance bounds how far a body travels per collision sub-step so
// fast bodies cannot tunnel through thin platforms.
const maxStepDistance = 8.0

// Solid is a collidable rectangle. Ref identifies the owner so callers can
// tell which platform a body stands on.
type Solid struct {
	Rect core.Rect
	Ref  int
}

// Body is a kinematic actor: a hitbox and a velocity. Gravity is applied
// by the caller; Body only moves and collides.
type Body struct {
	Rect    core.Rect
	Vel     core.Vec2
	Blocked Contact
}

// Center returns the hitbox center.
func (b *Body) Center() core.Vec2 {
	return b.Rect.Center()
}

// Move advances the body by Vel·dt against solids, X axis first and then
// Y, in sub-steps no longer than maxStepDistance. Velocity on a blocked
// axis is zeroed. Blocked is replaced with the contacts of this move.
func Move(c Collider, b *Body, dt float64, solids []Solid) Contact {
	b.Blocked = 0
	if dt <= 0 {
		return 0
	}

	dist := math.Max(math.Abs(b.Vel.X), math.Abs(b.Vel.Y)) * dt
	steps := int(math.Ceil(dist / maxStepDistance))
	if steps < 1 {
		steps = 1
	}
	sub := dt / float64(steps)

	for i := 0; i < steps; i++ {
		if b.Vel.X != 0 {
			moveAxis(c, b, core.V(b.Vel.X*sub, 0), solids)
		}
		if b.Vel.Y != 0 {
			moveAxis(c, b, core.V(0, b.Vel.Y*sub), solids)
		}
	}
	return b.Blocked
}

func moveAxis(c Collider, b *Body, delta core.Vec2, solids []Solid) {
	b.Rect = b.Rect.Moved(delta)
	for _, s := range solids {
		if !c.TestOverlap(b.Rect, s.Rect) {
			continue
		}
		pos, contact := c.ResolveCollision(b.Rect, delta, s.Rect)
		b.Rect.X, b.Rect.Y = pos.X, pos.Y
		b.Blocked |= contact
		if contact&(ContactLeft|ContactRight) != 0 {
			b.Vel.X = 0
		}
		if contact&(ContactUp|ContactDown) != 0 {
			b.Vel.Y = 0
		}
	}
}

// Depenetrate pushes a body that overlaps solids without moving (for
// example after a platform moved into it) out along the least penetration
// axis.
func Depenetrate(c Collider, b *Body, solids []Solid) Contact {
	var blocked Contact
	for _, s := range solids {
		if !c.TestOverlap(b.Rect, s.Rect) {
			continue
		}
		pos, contact := c.ResolveCollision(b.Rect, core.Vec2{}, s.Rect)
		b.Rect.X, b.Rect.Y = pos.X, pos.Y
		blocked |= contact
	}
	return blocked
}

// Touching reports the first solid touched when r is shifted one pixel toward
// side. It detects ground and wall contact independently of velocity.
func Touching(c Collider, r core.Rect, side Contact, solids []Solid) (Solid, bool) {
	var shift core.Vec2
	switch side {
	case ContactLeft:
		shift = core.V(-1, 0)
	case ContactRight:
		shift = core.V(1, 0)
	case ContactUp:
		shift = core.V(0, -1)
	case ContactDown:
		shift = core.V(0, 1)
	}
	shifted := r.Moved(shift)
	for _, s := range solids {
		if c.TestOverlap(shifted, s.Rect) {
			return s, true
		}
	}
	return Solid{}, false
}
