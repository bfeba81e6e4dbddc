// Package physics provides the kinematic body model and the swappable
// collision backend used by the simulation. The simulation owns tick order;
// this package only answers overlap queries and corrects positions.
package physics

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Contact is a bit set of the sides on which a body is blocked.
type Contact uint8

const (
	ContactLeft Contact = 1 << iota
	ContactRight
	ContactUp
	ContactDown
)

// Has reports whether every side in o is set in c.
func (c Contact) Has(o Contact) bool {
	return c&o == o
}

// Collider answers overlap queries and resolves a dynamic rect out of a
// static one.
type Collider interface {
	// TestOverlap reports whether a and b overlap.
	TestOverlap(a, b core.Rect) bool
	// ResolveCollision returns the corrected top-left position of dynamic
	// after it moved by motion into static, and the side it was blocked on.
	// When the rects do not overlap the position is unchanged and the
	// contact is zero.
	ResolveCollision(dynamic core.Rect, motion core.Vec2, static core.Rect) (core.Vec2, Contact)
}

// AABB is the plain axis-aligned collision backend. It keeps no state.
type AABB struct{}

// TestOverlap implements Collider.
func (AABB) TestOverlap(a, b core.Rect) bool {
	return a.Intersects(b)
}

// ResolveCollision implements Collider.
func (AABB) ResolveCollision(dynamic core.Rect, motion core.Vec2, static core.Rect) (core.Vec2, Contact) {
	if !dynamic.Intersects(static) {
		return core.V(dynamic.X, dynamic.Y), 0
	}
	return pushOut(dynamic, motion, static)
}

// pushOut moves an overlapping dynamic rect out of static. The body is
// pushed back against the direction it moved; a body that did not move (a
// platform moved into it) is pushed out along the axis of least
// penetration.
func pushOut(dynamic core.Rect, motion core.Vec2, static core.Rect) (core.Vec2, Contact) {
	pos := core.V(dynamic.X, dynamic.Y)
	switch {
	case motion.X > 0:
		return core.V(static.X-dynamic.W, pos.Y), ContactRight
	case motion.X < 0:
		return core.V(static.Right(), pos.Y), ContactLeft
	case motion.Y > 0:
		return core.V(pos.X, static.Y-dynamic.H), ContactDown
	case motion.Y < 0:
		return core.V(pos.X, static.Bottom()), ContactUp
	}

	left := dynamic.Right() - static.X
	right := static.Right() - dynamic.X
	up := dynamic.Bottom() - static.Y
	down := static.Bottom() - dynamic.Y
	least := math.Min(math.Min(left, right), math.Min(up, down))
	switch least {
	case up:
		return core.V(pos.X, static.Y-dynamic.H), ContactDown
	case down:
		return core.V(pos.X, static.Bottom()), ContactUp
	case left:
		return core.V(static.X-dynamic.W, pos.Y), ContactRight
	default:
		return core.V(static.Right(), pos.Y), ContactLeft
	}
}
