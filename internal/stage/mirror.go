package stage

import (
	"slices"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Mirrored returns a copy of d reflected along the X axis. Rects map to
// x' = width - x - w and points to x' = width - x. Patrol ranges,
// enemy facing, horizontal forces and X-axis platform travel are flipped
// as well, so mirroring twice yields the original definition.
func (d Definition) Mirrored() Definition {
	w := d.Size.Width
	m := d

	m.Spawn = core.MirrorPoint(d.Spawn, w)
	m.Goal = core.MirrorRect(d.Goal, w)
	m.Platforms = mapSlice(d.Platforms, func(r core.Rect) core.Rect { return core.MirrorRect(r, w) })

	m.Gems = mapSlice(d.Gems, func(g Gem) Gem {
		g.At = core.MirrorPoint(g.At, w)
		return g
	})
	m.Cycles = mapSlice(d.Cycles, func(c Cycle) Cycle {
		c.At = core.MirrorPoint(c.At, w)
		return c
	})
	m.Items = mapSlice(d.Items, func(it Item) Item {
		it.At = core.MirrorPoint(it.At, w)
		return it
	})
	m.Enemies = mapSlice(d.Enemies, func(e Enemy) Enemy {
		e.At = core.MirrorPoint(e.At, w)
		e.PatrolMinX, e.PatrolMaxX = w-e.PatrolMaxX, w-e.PatrolMinX
		e.Direction = -e.Direction
		return e
	})
	m.Checkpoints = mapSlice(d.Checkpoints, func(c Checkpoint) Checkpoint {
		c.Rect = core.MirrorRect(c.Rect, w)
		return c
	})
	m.Ports = mapSlice(d.Ports, func(p Port) Port {
		p.Entry = core.MirrorRect(p.Entry, w)
		p.Exit = core.MirrorPoint(p.Exit, w)
		return p
	})
	m.Springs = mapSlice(d.Springs, func(s Spring) Spring {
		s.Rect = core.MirrorRect(s.Rect, w)
		return s
	})
	m.WindZones = mapSlice(d.WindZones, func(z WindZone) WindZone {
		z.Rect = core.MirrorRect(z.Rect, w)
		z.ForceX = -z.ForceX
		return z
	})
	m.WaterZones = mapSlice(d.WaterZones, func(z WaterZone) WaterZone {
		z.Rect = core.MirrorRect(z.Rect, w)
		z.ForceX = -z.ForceX
		return z
	})
	m.GravityZones = mapSlice(d.GravityZones, func(z GravityZone) GravityZone {
		z.Rect = core.MirrorRect(z.Rect, w)
		return z
	})
	m.RotatorZones = mapSlice(d.RotatorZones, func(z RotatorZone) RotatorZone {
		z.Rect = core.MirrorRect(z.Rect, w)
		z.Amplitude = -z.Amplitude
		return z
	})
	m.CollapsingPlatforms = mapSlice(d.CollapsingPlatforms, func(p CollapsingPlatform) CollapsingPlatform {
		p.Rect = core.MirrorRect(p.Rect, w)
		return p
	})
	m.MovingPlatforms = mapSlice(d.MovingPlatforms, func(p MovingPlatform) MovingPlatform {
		p.Rect = core.MirrorRect(p.Rect, w)
		if p.Axis == AxisX {
			p.Travel = -p.Travel
		}
		return p
	})
	return m
}

// mapSlice returns a new slice with f applied to each element. A nil
// input stays nil.
func mapSlice[T any](in []T, f func(T) T) []T {
	if in == nil {
		return nil
	}
	out := slices.Clone(in)
	for i := range out {
		out[i] = f(out[i])
	}
	return out
}
