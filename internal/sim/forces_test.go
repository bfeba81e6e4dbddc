package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

func zoneStage() *stage.Definition {
	return &stage.Definition{
		GravityZones: []stage.GravityZone{
			{ID: "low", Rect: core.NewRect(0, 0, 100, 100), GravityScale: 0.5},
			{ID: "flip", Rect: core.NewRect(50, 0, 100, 100), GravityScale: -1},
		},
		WindZones: []stage.WindZone{
			{ID: "w1", Rect: core.NewRect(200, 0, 100, 100), ForceX: 300},
			{ID: "w2", Rect: core.NewRect(250, 0, 100, 100), ForceX: -100, ForceY: -50},
		},
		WaterZones: []stage.WaterZone{
			{ID: "pool", Rect: core.NewRect(400, 0, 100, 100), ForceX: 20, Drag: 0.9},
			{ID: "deep", Rect: core.NewRect(450, 0, 100, 100), Drag: 0.8},
		},
		RotatorZones: []stage.RotatorZone{
			{ID: "rot", Rect: core.NewRect(600, 0, 100, 100), Amplitude: 100, PeriodMs: 1000},
		},
	}
}

func TestResolveOutsideZonesIsNeutral(t *testing.T) {
	r := NewForceResolver(zoneStage())
	assert.Equal(t, NeutralEffect(), r.Resolve(core.V(1000, 50), 0, true))
}

func TestGravityZonesMultiply(t *testing.T) {
	r := NewForceResolver(zoneStage())
	assert.Equal(t, 0.5, r.Resolve(core.V(10, 10), 0, false).GravityScale)
	assert.Equal(t, -0.5, r.Resolve(core.V(75, 10), 0, false).GravityScale)
}

func TestWindForcesAdd(t *testing.T) {
	r := NewForceResolver(zoneStage())
	assert.Equal(t, core.V(200, -50), r.Resolve(core.V(275, 10), 0, false).Force)
}

func TestWaterUsesMinimumDrag(t *testing.T) {
	r := NewForceResolver(zoneStage())

	one := r.Resolve(core.V(420, 10), 0, false)
	assert.True(t, one.InWater)
	assert.Equal(t, 0.9, one.Drag)
	assert.InDelta(t, waterGravityDampening, one.GravityScale, 1e-12)

	both := r.Resolve(core.V(475, 10), 0, false)
	assert.Equal(t, 0.8, both.Drag)
	assert.InDelta(t, waterGravityDampening, both.GravityScale, 1e-12, "overlapping water dampens once")

	up := r.Resolve(core.V(420, 10), 0, true)
	assert.Equal(t, core.V(20, waterAscentForce), up.Force)
}

func TestWaterDampeningStacksWithGravityZones(t *testing.T) {
	def := &stage.Definition{
		GravityZones: []stage.GravityZone{{ID: "low", Rect: core.NewRect(0, 0, 100, 100), GravityScale: 0.5}},
		WaterZones: []stage.WaterZone{
			{ID: "a", Rect: core.NewRect(0, 0, 100, 100), Drag: 0.9},
			{ID: "b", Rect: core.NewRect(0, 0, 100, 100), Drag: 0.95},
			{ID: "c", Rect: core.NewRect(0, 0, 100, 100), Drag: 1},
		},
	}
	eff := NewForceResolver(def).Resolve(core.V(50, 50), 0, false)

	assert.True(t, eff.InWater)
	assert.Equal(t, 0.9, eff.Drag)
	assert.InDelta(t, 0.5*waterGravityDampening, eff.GravityScale, 1e-12)
}

func TestAscentOnlyInWater(t *testing.T) {
	r := NewForceResolver(zoneStage())
	assert.Zero(t, r.Resolve(core.V(10, 10), 0, true).Force.Y)
}

func TestRotatorPhase(t *testing.T) {
	r := NewForceResolver(zoneStage())
	p := core.V(650, 50)

	assert.InDelta(t, 0, r.Resolve(p, 0, false).Force.X, 1e-9)
	assert.InDelta(t, 100, r.Resolve(p, 250, false).Force.X, 1e-9)
	assert.InDelta(t, -100, r.Resolve(p, 1750, false).Force.X, 1e-9)
}

func TestIntegrateOrder(t *testing.T) {
	eff := ZoneEffect{GravityScale: 1, Force: core.V(10, 0), Drag: 0.5}
	v := eff.Integrate(core.V(100, 0), 1000, 0.1)
	assert.InDelta(t, 51, v.X, 1e-9)
	assert.InDelta(t, 100, v.Y, 1e-9)
}

func TestAttenuated(t *testing.T) {
	eff := ZoneEffect{GravityScale: -1, Force: core.V(100, -40), Drag: 0.6, InWater: true}
	got := eff.Attenuated(enemyZoneStrength)

	assert.InDelta(t, 0.3, got.GravityScale, 1e-9)
	assert.InDelta(t, 35, got.Force.X, 1e-9)
	assert.InDelta(t, -14, got.Force.Y, 1e-9)
	assert.InDelta(t, 0.86, got.Drag, 1e-9)
	assert.Equal(t, NeutralEffect(), NeutralEffect().Attenuated(enemyZoneStrength))
}
