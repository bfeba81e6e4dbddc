package sim

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

const (
	waterGravityDampening = 0.36
	waterAscentForce      = -520.0 // px/s², applied while up is held in water
	enemyZoneStrength     = 0.35
)

// ZoneEffect is the summed influence of every zone containing a point.
type ZoneEffect struct {
	GravityScale float64
	Force        core.Vec2
	// Drag multiplies velocity each tick; 1 means no drag.
	Drag    float64
	InWater bool
}

// NeutralEffect is the effect outside every zone.
func NeutralEffect() ZoneEffect {
	return ZoneEffect{GravityScale: 1, Drag: 1}
}

// Attenuated scales the effect toward neutral by strength in [0, 1].
func (e ZoneEffect) Attenuated(strength float64) ZoneEffect {
	return ZoneEffect{
		GravityScale: core.Linear(1, e.GravityScale, strength),
		Force:        e.Force.Scale(strength),
		Drag:         core.Linear(1, e.Drag, strength),
		InWater:      e.InWater,
	}
}

// Integrate applies the effect and gravity to v over dt seconds: drag
// first, then the summed forces including scaled gravity.
func (e ZoneEffect) Integrate(v core.Vec2, gravity, dt float64) core.Vec2 {
	v = v.Scale(e.Drag)
	accel := e.Force.Add(core.V(0, gravity*e.GravityScale))
	return v.Add(accel.Scale(dt))
}

// ForceResolver evaluates stage zones for actor positions.
type ForceResolver struct {
	wind     []stage.WindZone
	water    []stage.WaterZone
	gravity  []stage.GravityZone
	rotators []stage.RotatorZone
}

// NewForceResolver indexes the zones of def.
func NewForceResolver(def *stage.Definition) *ForceResolver {
	return &ForceResolver{
		wind:     def.WindZones,
		water:    def.WaterZones,
		gravity:  def.GravityZones,
		rotators: def.RotatorZones,
	}
}

// Resolve returns the effect at point p. elapsedMs drives rotator phase;
// ascend is true when the actor holds up (only meaningful in water).
// Overlapping zones accumulate with no priority: gravity scales multiply,
// forces add and the lowest water drag wins. Water dampens gravity once
// however many water zones overlap.
func (r *ForceResolver) Resolve(p core.Vec2, elapsedMs float64, ascend bool) ZoneEffect {
	eff := NeutralEffect()

	for _, z := range r.gravity {
		if z.Rect.Contains(p) {
			eff.GravityScale *= z.GravityScale
		}
	}

	for _, z := range r.wind {
		if z.Rect.Contains(p) {
			eff.Force = eff.Force.Add(core.V(z.ForceX, z.ForceY))
		}
	}

	for _, z := range r.water {
		if !z.Rect.Contains(p) {
			continue
		}
		eff.Force = eff.Force.Add(core.V(z.ForceX, z.ForceY))
		if !eff.InWater || z.Drag < eff.Drag {
			eff.Drag = z.Drag
		}
		eff.InWater = true
	}
	if eff.InWater {
		eff.GravityScale *= waterGravityDampening
		if ascend {
			eff.Force.Y += waterAscentForce
		}
	}

	for _, z := range r.rotators {
		if z.PeriodMs <= 0 || !z.Rect.Contains(p) {
			continue
		}
		phase := math.Mod(elapsedMs, z.PeriodMs) / z.PeriodMs
		eff.Force.X += math.Sin(2*math.Pi*phase) * z.Amplitude
	}

	return eff
}
