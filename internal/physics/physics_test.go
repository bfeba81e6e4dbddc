package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

func TestAABBResolveByMotion(t *testing.T) {
	static := core.NewRect(100, 100, 50, 20)

	tests := []struct {
		name    string
		dynamic core.Rect
		motion  core.Vec2
		wantPos core.Vec2
		want    Contact
	}{
		{"falling lands on top", core.NewRect(110, 85, 24, 20), core.V(0, 5), core.V(110, 80), ContactDown},
		{"rising hits underside", core.NewRect(110, 115, 24, 20), core.V(0, -5), core.V(110, 120), ContactUp},
		{"moving right hits left face", core.NewRect(80, 105, 24, 10), core.V(5, 0), core.V(76, 105), ContactRight},
		{"moving left hits right face", core.NewRect(145, 105, 24, 10), core.V(-5, 0), core.V(150, 105), ContactLeft},
		{"no overlap is untouched", core.NewRect(0, 0, 10, 10), core.V(5, 0), core.V(0, 0), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, contact := AABB{}.ResolveCollision(tc.dynamic, tc.motion, static)
			assert.Equal(t, tc.wantPos, pos)
			assert.Equal(t, tc.want, contact)
		})
	}
}

func TestAABBResolveStationaryUsesLeastPenetration(t *testing.T) {
	static := core.NewRect(0, 100, 200, 20)
	pos, contact := AABB{}.ResolveCollision(core.NewRect(50, 60, 24, 44), core.Vec2{}, static)

	assert.Equal(t, ContactDown, contact)
	assert.Equal(t, core.V(50, 56), pos)
}

func TestMoveLandsAndZeroesVelocity(t *testing.T) {
	floor := []Solid{{Rect: core.NewRect(0, 100, 500, 24), Ref: 7}}
	b := &Body{Rect: core.NewRect(10, 50, 24, 44), Vel: core.V(120, 600)}

	blocked := Move(AABB{}, b, 0.1, floor)

	assert.True(t, blocked.Has(ContactDown))
	assert.Equal(t, 56.0, b.Rect.Y)
	assert.Zero(t, b.Vel.Y)
	assert.InDelta(t, 22.0, b.Rect.X, 1e-9)

	ground, ok := Touching(AABB{}, b.Rect, ContactDown, floor)
	require.True(t, ok)
	assert.Equal(t, 7, ground.Ref)
}

func TestMoveDoesNotTunnel(t *testing.T) {
	thin := []Solid{{Rect: core.NewRect(0, 100, 500, 4)}}
	b := &Body{Rect: core.NewRect(10, 40, 24, 44), Vel: core.V(0, 3000)}

	Move(AABB{}, b, 0.05, thin)

	assert.Equal(t, 56.0, b.Rect.Y, "body should stop on top of the thin platform")
}

func TestTouchingWalls(t *testing.T) {
	wall := []Solid{{Rect: core.NewRect(100, 0, 20, 200)}}
	r := core.NewRect(76, 50, 24, 44)

	_, right := Touching(AABB{}, r, ContactRight, wall)
	_, left := Touching(AABB{}, r, ContactLeft, wall)
	assert.True(t, right)
	assert.False(t, left)
}

func TestDepenetrate(t *testing.T) {
	platform := []Solid{{Rect: core.NewRect(0, 100, 200, 20)}}
	b := &Body{Rect: core.NewRect(50, 58, 24, 44)}

	contact := Depenetrate(AABB{}, b, platform)
	assert.Equal(t, ContactDown, contact)
	assert.Equal(t, 56.0, b.Rect.Y)
}

func TestResolvMatchesAABB(t *testing.T) {
	static := core.NewRect(100, 100, 50, 20)

	tests := []struct {
		name    string
		dynamic core.Rect
		motion  core.Vec2
	}{
		{"falling lands on top", core.NewRect(110, 85, 24, 20), core.V(0, 5)},
		{"rising hits underside", core.NewRect(110, 115, 24, 20), core.V(0, -5)},
		{"moving right hits left face", core.NewRect(80, 105, 24, 10), core.V(5, 0)},
		{"moving left hits right face", core.NewRect(145, 105, 24, 10), core.V(-5, 0)},
		{"stationary overlap", core.NewRect(110, 95, 24, 20), core.Vec2{}},
		{"touching edge", core.NewRect(110, 80, 24, 20), core.V(0, 1)},
		{"far away", core.NewRect(900, 900, 10, 10), core.V(5, 0)},
		{"outside the hashed area", core.NewRect(-5000, -5000, 10, 10), core.V(0, 1)},
	}

	r := NewResolv()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wantPos, want := AABB{}.ResolveCollision(tc.dynamic, tc.motion, static)
			pos, contact := r.ResolveCollision(tc.dynamic, tc.motion, static)

			assert.Equal(t, AABB{}.TestOverlap(tc.dynamic, static), r.TestOverlap(tc.dynamic, static))
			assert.Equal(t, wantPos, pos)
			assert.Equal(t, want, contact)
		})
	}
}

func TestResolvSubPixelOverlapAcrossCells(t *testing.T) {
	r := NewResolv()
	// 128 is a cell border in space coordinates.
	wall := core.NewRect(128, 0, 20, 200)

	assert.True(t, r.TestOverlap(core.NewRect(104.5, 50, 24, 44), wall))
	assert.False(t, r.TestOverlap(core.NewRect(104, 50, 24, 44), wall), "touching is not overlap")
}

func TestResolvOutsideHashedArea(t *testing.T) {
	r := NewResolv()
	a := core.NewRect(-3000, 10, 50, 50)
	b := core.NewRect(-2990, 20, 50, 50)

	assert.True(t, r.TestOverlap(a, b))
	assert.Zero(t, r.Statics(), "rects outside the hash are tested directly")
}

func TestResolvFlushesStaticCache(t *testing.T) {
	r := NewResolv()
	player := core.NewRect(0, 0, 24, 44)
	for i := range resolvMaxStatic + 10 {
		r.TestOverlap(player, core.NewRect(float64(i), 500, 100, 20))
	}
	assert.LessOrEqual(t, r.Statics(), resolvMaxStatic)

	// A cached static still answers after the flush.
	assert.True(t, r.TestOverlap(core.NewRect(10, 490, 24, 44), core.NewRect(0, 500, 100, 20)))
}

func TestResolvMoveAndTouching(t *testing.T) {
	floor := []Solid{{Rect: core.NewRect(0, 100, 500, 24), Ref: 7}}
	b := &Body{Rect: core.NewRect(10, 50, 24, 44), Vel: core.V(120, 600)}
	r := NewResolv()

	blocked := Move(r, b, 0.1, floor)

	assert.True(t, blocked.Has(ContactDown))
	assert.Equal(t, 56.0, b.Rect.Y)
	ground, ok := Touching(r, b.Rect, ContactDown, floor)
	require.True(t, ok)
	assert.Equal(t, 7, ground.Ref)

	_, ceiling := Touching(r, b.Rect, ContactUp, floor)
	assert.False(t, ceiling)
}

func TestNewCollider(t *testing.T) {
	tests := []struct {
		name    string
		want    Collider
		wantErr bool
	}{
		{"", &Resolv{}, false},
		{BackendResolv, &Resolv{}, false},
		{BackendAABB, AABB{}, false},
		{"box2d", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCollider(tc.name)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, c)
		})
	}
}
