package physics

import (
	"fmt"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Spatial hash layout for Resolv. The hashed area starts at resolvOrigin
// so stages can be entered from above or the left without leaving it.
const (
	resolvCellSize  = 64
	resolvExtent    = 8192
	resolvOrigin    = -2048.0
	resolvMaxStatic = 512

	tagStatic = "static"
)

// Collider backend names accepted by NewCollider.
const (
	BackendResolv = "resolv"
	BackendAABB   = "aabb"
)

// NewCollider returns the backend registered under name. An empty name
// selects resolv.
func NewCollider(name string) (Collider, error) {
	switch name {
	case "", BackendResolv:
		return NewResolv(), nil
	case BackendAABB:
		return AABB{}, nil
	}
	return nil, fmt.Errorf("physics: unknown collider %q (want %s or %s)", name, BackendResolv, BackendAABB)
}

// Resolv is a Collider backed by a resolv spatial hash. Static rects are
// registered in the space on first use; a query places the dynamic rect
// and asks the space which statics share its cells, then confirms the
// candidate with a strict bounds test so touching edges never overlap.
//
// Resolv caches resolv objects between calls and is not safe for
// concurrent use; give each simulation its own.
type Resolv struct {
	space   *resolv.Space
	extent  core.Rect
	dynamic *resolv.Object
	statics map[core.Rect]*resolv.Object
}

// NewResolv creates an empty resolv-backed collider.
func NewResolv() *Resolv {
	c := &Resolv{
		space:   resolv.NewSpace(resolvExtent, resolvExtent, resolvCellSize, resolvCellSize),
		extent:  core.NewRect(resolvOrigin, resolvOrigin, resolvExtent, resolvExtent),
		dynamic: resolv.NewObject(0, 0, 1, 1, "dynamic"),
		statics: make(map[core.Rect]*resolv.Object),
	}
	c.space.Add(c.dynamic)
	return c
}

// TestOverlap implements Collider.
func (c *Resolv) TestOverlap(a, b core.Rect) bool {
	if a.W <= 0 || a.H <= 0 || b.W <= 0 || b.H <= 0 {
		return false
	}
	return c.candidate(a, b) && a.Intersects(b)
}

// ResolveCollision implements Collider.
func (c *Resolv) ResolveCollision(dynamic core.Rect, motion core.Vec2, static core.Rect) (core.Vec2, Contact) {
	if !c.TestOverlap(dynamic, static) {
		return core.V(dynamic.X, dynamic.Y), 0
	}
	return pushOut(dynamic, motion, static)
}

// Statics returns the number of static rects currently hashed.
func (c *Resolv) Statics() int {
	return len(c.statics)
}

// candidate reports whether the space pairs a with static b. The query
// rect is padded by a pixel so sub-pixel overlaps on a cell border are
// still paired. Rects outside the hashed area are always candidates.
func (c *Resolv) candidate(a, b core.Rect) bool {
	query := core.NewRect(a.X-1, a.Y-1, a.W+2, a.H+2)
	if !c.hashed(query) || !c.hashed(b) {
		return true
	}

	st := c.static(b)
	c.dynamic.Position.X = query.X - resolvOrigin
	c.dynamic.Position.Y = query.Y - resolvOrigin
	c.dynamic.Size.X, c.dynamic.Size.Y = query.W, query.H
	c.dynamic.Update()

	col := c.dynamic.Check(0, 0, tagStatic)
	if col == nil {
		return false
	}
	for _, o := range col.Objects {
		if o == st {
			return true
		}
	}
	return false
}

// static returns the space object for r, adding it on first use. Moving
// platforms produce a new rect every tick, so the cache is flushed once it
// grows past resolvMaxStatic.
func (c *Resolv) static(r core.Rect) *resolv.Object {
	if obj, ok := c.statics[r]; ok {
		return obj
	}
	if len(c.statics) >= resolvMaxStatic {
		for _, obj := range c.statics {
			c.space.Remove(obj)
		}
		clear(c.statics)
	}
	obj := resolv.NewObject(r.X-resolvOrigin, r.Y-resolvOrigin, r.W, r.H, tagStatic)
	c.space.Add(obj)
	c.statics[r] = obj
	return obj
}

func (c *Resolv) hashed(r core.Rect) bool {
	e := c.extent
	return r.X >= e.X && r.Y >= e.Y && r.Right() <= e.Right() && r.Bottom() <= e.Bottom()
}
