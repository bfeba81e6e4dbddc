// Package core provides fundamental types and utilities shared by the
// simulation and its presenters. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
//
// World coordinates use the origin at the top-left corner, +x to the right
// and +y downward. Units are pixels; velocities are pixels per second.
package core

import "math"

// CoordinateSystem describes the world coordinate convention.
const CoordinateSystem = "origin(0,0) top-left; +x right; +y down"

// Vec2 is a 2D vector or point in world space.
type Vec2 struct {
	X float64 `yaml:"x" json:"x" msgpack:"x"`
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the direction of v.
// The zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rect represents an axis-aligned bounding box used for collision detection.
type Rect struct {
	X float64 `yaml:"x" json:"x" msgpack:"x"` // Top-left corner
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
	W float64 `yaml:"width" json:"width" msgpack:"w"`
	H float64 `yaml:"height" json:"height" msgpack:"h"`
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround returns a rectangle of the given size centered on c.
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point p is inside this rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{X: x, Y: y, W: max(r.Right(), other.Right()) - x, H: max(r.Bottom(), other.Bottom()) - y}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Moved returns the rectangle translated by d.
func (r Rect) Moved(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// WithCenter returns the rectangle repositioned so its center is c.
func (r Rect) WithCenter(c Vec2) Rect {
	r.X = c.X - r.W/2
	r.Y = c.Y - r.H/2
	return r
}

// MirrorX reflects x across a world of the given width.
func MirrorX(x, width float64) float64 {
	return width - x
}

// MirrorPoint reflects a point horizontally: x' = width - x.
func MirrorPoint(p Vec2, width float64) Vec2 {
	return Vec2{X: width - p.X, Y: p.Y}
}

// MirrorRect reflects a rectangle horizontally: x' = width - x - w.
func MirrorRect(r Rect, width float64) Rect {
	r.X = width - r.X - r.W
	return r
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Linear interpolates from a toward b by t.
func Linear(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MoveToward moves current toward target by at most maxDelta, landing
// exactly on target once within reach.
func MoveToward(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + Sign(target-current)*maxDelta
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
