package sim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/sim"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// Bounce speeds of enemy kills, in px/s.
const (
	stompBounce = 520.0
	poundBounce = 420.0
)

func center(snap sim.Snapshot) core.Vec2 {
	p := snap.Player
	return core.V(p.X+p.W/2, p.Y+p.H/2)
}

func feet(snap sim.Snapshot) float64 {
	return snap.Player.Y + snap.Player.H
}

func entity(snap sim.Snapshot, kind sim.EntityKind, id string) (sim.EntityView, bool) {
	for _, e := range snap.Entities {
		if e.Kind == kind && e.ID == id {
			return e, true
		}
	}
	return sim.EntityView{}, false
}

func enemyShots(snap sim.Snapshot) int {
	n := 0
	for _, e := range snap.Entities {
		if e.Kind == sim.EntityShot && e.State == "enemy" {
			n++
		}
	}
	return n
}

func count(events []sim.Event, want sim.Event) int {
	return len(filter(events, want))
}

func TestSpringLaunchesFallingPlayer(t *testing.T) {
	tests := []struct {
		name   string
		dropY  float64
		dtMs   float64
		bounce float64
		want   float64
	}{
		{"short drop", 300, frameMs, 900, 900},
		{"terminal velocity", -1500, frameMs, 900, 900},
		{"terminal velocity long frames", -1500, sim.MaxDeltaMs, 900, 900},
		{"default bounce", 200, frameMs, 0, 900},
		{"strong spring", -400, frameMs, 1040, 1040},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Spawn = core.V(326, tc.dropY)
			def.Springs = []stage.Spring{{ID: "s", Rect: core.NewRect(300, 486, 52, 14), BounceVelocity: tc.bounce}}
			events := &sim.EventLog{}
			s := sim.New(sim.Options{Stage: def, Events: events})

			minVY := math.Inf(1)
			apex := math.Inf(1)
			fired := false
			for range 600 {
				s.Step(idle(), tc.dtMs)
				snap := s.Snapshot()
				minVY = math.Min(minVY, snap.Player.VY)
				if snap.Player.VY < 0 {
					fired = true
				}
				if fired {
					apex = math.Min(apex, feet(snap))
				}
			}

			require.True(t, fired, "spring never fired")
			assert.InDelta(t, -tc.want, minVY, 1e-9)
			assert.Positive(t, count(events.Drain(), sim.EventJump))
			// Released jump must not cut a spring launch.
			assert.Less(t, apex, 500-0.6*tc.want*tc.want/(2*1800))
		})
	}
}

func TestSpringIgnoresStandingPlayer(t *testing.T) {
	def := flatStage(2000)
	def.Spawn = core.V(326, 478)
	def.Springs = []stage.Spring{{ID: "s", Rect: core.NewRect(300, 486, 52, 14), BounceVelocity: 900}}
	s := sim.New(sim.Options{Stage: def})

	for range 60 {
		s.Step(idle(), frameMs)
		require.GreaterOrEqual(t, s.Snapshot().Player.VY, 0.0)
	}
}

func TestPortTeleportsAndCoolsDown(t *testing.T) {
	tests := []struct {
		name       string
		cooldownMs float64
		holdTicks  int
	}{
		{"explicit cooldown", 100, 4},
		{"default cooldown", 0, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Ports = []stage.Port{
				{ID: "out", Entry: core.NewRect(60, 440, 80, 60), Exit: core.V(600, 478), CooldownMs: tc.cooldownMs},
				{ID: "back", Entry: core.NewRect(560, 440, 80, 60), Exit: core.V(100, 478), CooldownMs: tc.cooldownMs},
			}
			events := &sim.EventLog{}
			s := sim.New(sim.Options{Stage: def, Events: events})

			s.Step(idle(), frameMs)
			assert.InDelta(t, 600, center(s.Snapshot()).X, 1e-9)
			assert.Equal(t, 1, count(events.Drain(), sim.EventWarp))

			// Standing in the return port is a no-op until the cooldown ends.
			for range tc.holdTicks {
				s.Step(idle(), frameMs)
				assert.InDelta(t, 600, center(s.Snapshot()).X, 1e-9)
			}
			assert.Zero(t, count(events.Drain(), sim.EventWarp))

			for range 60 {
				s.Step(idle(), frameMs)
			}
			assert.Positive(t, count(events.Drain(), sim.EventWarp))
		})
	}
}

func TestCollapsingPlatformLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		delayMs   float64
		respawnMs float64
	}{
		{"quick", 500, 300},
		{"slow", 900, 600},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Platforms = []core.Rect{core.NewRect(300, 500, 1700, 40)}
			def.CollapsingPlatforms = []stage.CollapsingPlatform{
				{ID: "c", Rect: core.NewRect(60, 500, 80, 20), CollapseDelayMs: tc.delayMs, RespawnMs: tc.respawnMs},
			}
			s := sim.New(sim.Options{Stage: def, Profile: profileWithBackups(9)})

			view, ok := entity(s.Snapshot(), sim.EntityCollapsing, "c")
			require.True(t, ok)
			states := []string{view.State}
			ticks := map[string]int{}
			for range 240 {
				s.Step(idle(), frameMs)
				view, _ = entity(s.Snapshot(), sim.EntityCollapsing, "c")
				if len(states) < 5 {
					ticks[view.State]++
				}
				if view.State != states[len(states)-1] {
					states = append(states, view.State)
				}
			}

			require.GreaterOrEqual(t, len(states), 5)
			assert.Equal(t, []string{"stable", "countdown", "warning", "gone", "stable"}, states[:5])

			warnMs := float64(ticks["warning"]) * frameMs
			assert.InDelta(t, 0.4*tc.delayMs, warnMs, 2*frameMs)
			assert.InDelta(t, tc.delayMs, float64(ticks["countdown"]+ticks["warning"])*frameMs, 2*frameMs)
			assert.InDelta(t, tc.respawnMs, float64(ticks["gone"])*frameMs, 2*frameMs)
		})
	}
}

func TestMovingPlatformCarriesPlayer(t *testing.T) {
	tests := []struct {
		name string
		axis stage.Axis
	}{
		{"horizontal", stage.AxisX},
		{"vertical", stage.AxisY},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Platforms = []core.Rect{core.NewRect(1000, 500, 1000, 40)}
			def.MovingPlatforms = []stage.MovingPlatform{
				{ID: "m", Rect: core.NewRect(60, 500, 100, 20), Axis: tc.axis, Travel: 60, Speed: 2},
			}
			s := sim.New(sim.Options{Stage: def})

			moved := 0.0
			for range 120 {
				s.Step(idle(), frameMs)
				snap := s.Snapshot()
				m, ok := entity(snap, sim.EntityMoving, "m")
				require.True(t, ok)

				assert.InDelta(t, m.Rect.Y, feet(snap), 1e-6, "player should stay on the platform")
				assert.InDelta(t, m.Rect.X+40, center(snap).X, 1e-6, "player should ride with the platform")
				moved = math.Max(moved, math.Abs(m.Rect.X-60)+math.Abs(m.Rect.Y-500))
			}
			assert.Greater(t, moved, 30.0)
		})
	}
}

// trackEnemy steps idle frames and records the enemy center after each
// tick along with the number of live enemy shots. It stops early once the
// enemy is gone.
func trackEnemy(s *sim.Sim, id string, ticks int) (centers []core.Vec2, shots []int) {
	for range ticks {
		s.Step(idle(), frameMs)
		snap := s.Snapshot()
		e, ok := entity(snap, sim.EntityEnemy, id)
		if !ok {
			return centers, shots
		}
		centers = append(centers, e.Rect.Center())
		shots = append(shots, enemyShots(snap))
	}
	return centers, shots
}

func spanX(cs []core.Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range cs {
		lo, hi = math.Min(lo, c.X), math.Max(hi, c.X)
	}
	return lo, hi
}

func spanY(cs []core.Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range cs {
		lo, hi = math.Min(lo, c.Y), math.Max(hi, c.Y)
	}
	return lo, hi
}

func firstShot(shots []int) int {
	for i, n := range shots {
		if n > 0 {
			return i + 1
		}
	}
	return -1
}

func TestEnemyBehaviors(t *testing.T) {
	tests := []struct {
		name  string
		enemy stage.Enemy
		ticks int
		check func(t *testing.T, centers []core.Vec2, shots []int)
	}{
		{
			name:  "crawler turns at patrol bounds",
			enemy: stage.Enemy{Kind: stage.EnemyCrawler, At: core.V(500, 486), PatrolMinX: 450, PatrolMaxX: 550, Speed: 80},
			ticks: 300,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				lo, hi := spanX(cs)
				assert.InDelta(t, 450, lo, 2)
				assert.InDelta(t, 550, hi, 2)
			},
		},
		{
			name:  "hopper hops on its interval",
			enemy: stage.Enemy{Kind: stage.EnemyHopper, At: core.V(700, 486), PatrolMinX: 650, PatrolMaxX: 750, Speed: 60},
			ticks: 150,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				early, _ := spanY(cs[:80])
				assert.InDelta(t, 486, early, 1, "no hop before the interval")
				top, _ := spanY(cs)
				assert.Less(t, top, 486-40.0)
			},
		},
		{
			name:  "drone bobs without gravity",
			enemy: stage.Enemy{Kind: stage.EnemyDrone, At: core.V(900, 300), PatrolMinX: 880, PatrolMaxX: 920, Speed: 80},
			ticks: 300,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				lo, hi := spanY(cs)
				assert.GreaterOrEqual(t, lo, 300-24-1e-9)
				assert.LessOrEqual(t, hi, 300+24+1e-9)
				assert.Less(t, lo, 300-20.0)
				assert.Greater(t, hi, 300+20.0)
			},
		},
		{
			name:  "turret fires at a player in range",
			enemy: stage.Enemy{Kind: stage.EnemyTurret, At: core.V(400, 485)},
			ticks: 130,
			check: func(t *testing.T, _ []core.Vec2, shots []int) {
				first := firstShot(shots)
				// 1800 ms interval on standard.
				assert.InDelta(t, 108, first, 3)
			},
		},
		{
			name:  "turret holds fire out of range",
			enemy: stage.Enemy{Kind: stage.EnemyTurret, At: core.V(1000, 485)},
			ticks: 300,
			check: func(t *testing.T, _ []core.Vec2, shots []int) {
				assert.Equal(t, -1, firstShot(shots))
			},
		},
		{
			name:  "chaser pursues inside its radius",
			enemy: stage.Enemy{Kind: stage.EnemyChaser, At: core.V(300, 486), PatrolMinX: 280, PatrolMaxX: 320, Speed: 80},
			ticks: 60,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				lo, _ := spanX(cs)
				assert.Less(t, lo, 200.0)
			},
		},
		{
			name:  "chaser patrols outside its radius",
			enemy: stage.Enemy{Kind: stage.EnemyChaser, At: core.V(600, 486), PatrolMinX: 580, PatrolMaxX: 620, Speed: 80},
			ticks: 300,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				lo, hi := spanX(cs)
				assert.InDelta(t, 580, lo, 2)
				assert.InDelta(t, 620, hi, 2)
			},
		},
		{
			name:  "dasher bursts toward the player after its cooldown",
			enemy: stage.Enemy{Kind: stage.EnemyDasher, At: core.V(500, 486), PatrolMinX: 480, PatrolMaxX: 520, Speed: 80},
			ticks: 150,
			check: func(t *testing.T, cs []core.Vec2, _ []int) {
				early, _ := spanX(cs[:100])
				assert.GreaterOrEqual(t, early, 478.0, "patrols until the 1900 ms cooldown")
				lo, _ := spanX(cs)
				assert.Less(t, lo, 450.0)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			tc.enemy.ID = "e"
			def.Enemies = []stage.Enemy{tc.enemy}
			s := sim.New(sim.Options{Stage: def, Profile: profileWithBackups(9)})

			centers, shots := trackEnemy(s, "e", tc.ticks)
			require.Len(t, centers, tc.ticks, "enemy disappeared")
			tc.check(t, centers, shots)
		})
	}
}

func TestFallingKillsBounce(t *testing.T) {
	tests := []struct {
		name   string
		first  core.InputFrame
		bounce float64
	}{
		{"stomp", idle(), stompBounce},
		{"ground pound", pressing(core.ActionDown), poundBounce},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Spawn = core.V(100, 300)
			def.Enemies = []stage.Enemy{{ID: "e", Kind: stage.EnemyCrawler, At: core.V(100, 486), PatrolMinX: 60, PatrolMaxX: 140, Speed: 1}}
			events := &sim.EventLog{}
			s := sim.New(sim.Options{Stage: def, Events: events})

			minVY := math.Inf(1)
			s.Step(tc.first, frameMs)
			for range 60 {
				s.Step(idle(), frameMs)
				minVY = math.Min(minVY, s.Snapshot().Player.VY)
			}
			snap := s.Snapshot()

			assert.Zero(t, snap.Remaining.Enemies)
			assert.Zero(t, snap.Resources.Hits)
			assert.Equal(t, 1, count(events.Drain(), sim.EventEnemyDie))
			assert.InDelta(t, -tc.bounce, minVY, 1e-9)
		})
	}
}

func TestSlowContactFromAboveHurts(t *testing.T) {
	def := flatStage(2000)
	// Center starts above the crawler's top edge while barely falling.
	def.Spawn = core.V(100, 460)
	def.Enemies = []stage.Enemy{{ID: "e", Kind: stage.EnemyCrawler, At: core.V(100, 486), PatrolMinX: 60, PatrolMaxX: 140, Speed: 1}}
	s := sim.New(sim.Options{Stage: def, Profile: profileWithBackups(2)})

	s.Step(idle(), frameMs)
	snap := s.Snapshot()

	assert.Equal(t, 1, snap.Remaining.Enemies)
	assert.Equal(t, 1, snap.Resources.Hits)
	assert.Equal(t, 1, snap.Resources.BackupsUsed)
}

func TestEnemiesLeavingStageAreRemoved(t *testing.T) {
	tests := []struct {
		name  string
		enemy stage.Enemy
	}{
		{"crawler falls off the floor", stage.Enemy{ID: "e", Kind: stage.EnemyCrawler, At: core.V(600, 486), PatrolMinX: 580, PatrolMaxX: 620, Speed: 80}},
		{"drone flies past the edge", stage.Enemy{ID: "e", Kind: stage.EnemyDrone, At: core.V(1950, 300), PatrolMinX: 1900, PatrolMaxX: 2500, Speed: 200}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(300)
			def.Enemies = []stage.Enemy{tc.enemy}
			events := &sim.EventLog{}
			s := sim.New(sim.Options{Stage: def, Events: events})
			require.Equal(t, 1, s.Snapshot().Remaining.Enemies)

			for range 120 {
				s.Step(idle(), frameMs)
			}

			assert.Zero(t, s.Snapshot().Remaining.Enemies)
			assert.NotContains(t, events.Drain(), sim.EventEnemyDie)
		})
	}
}

func TestEnemyShotDamage(t *testing.T) {
	tests := []struct {
		name        string
		shielded    bool
		wantBackups int
		wantUsed    int
	}{
		{"shield absorbs", true, 3, 0},
		{"unshielded costs a backup", false, 2, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Enemies = []stage.Enemy{{ID: "t", Kind: stage.EnemyTurret, At: core.V(400, 485)}}
			if tc.shielded {
				def.Items = []stage.Item{{ID: "m", Kind: stage.ItemModule, At: core.V(100, 480)}}
			}
			events := &sim.EventLog{}
			s := sim.New(sim.Options{Stage: def, Profile: profileWithBackups(3), Events: events})

			runUntilHit(t, s, events, idle())
			snap := s.Snapshot()

			assert.Equal(t, 1, snap.Resources.Hits)
			assert.Equal(t, sim.PatchRaw, snap.Resources.Patch)
			assert.Equal(t, tc.wantBackups, snap.Resources.Backups)
			assert.Equal(t, tc.wantUsed, snap.Resources.BackupsUsed)
			assert.Positive(t, snap.Resources.InvulnMs)
			assert.Zero(t, enemyShots(snap), "the shot is spent on the hit")
		})
	}
}

func TestPlayerShotLifetime(t *testing.T) {
	tests := []struct {
		name      string
		wall      bool
		aliveTick int
		goneTick  int
	}{
		{"expires after its lifetime", false, 40, 60},
		{"stops at a platform", true, 2, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := flatStage(2000)
			def.Items = []stage.Item{{ID: "c", Kind: stage.ItemCompiler, At: core.V(100, 480)}}
			if tc.wall {
				def.Platforms = append(def.Platforms, core.NewRect(200, 400, 20, 100))
			}
			s := sim.New(sim.Options{Stage: def})
			s.Step(idle(), frameMs)
			s.Step(pressing(core.ActionFire), frameMs)
			require.Equal(t, 1, s.Snapshot().Remaining.Projectiles)

			for i := 1; i <= tc.goneTick; i++ {
				s.Step(idle(), frameMs)
				if i == tc.aliveTick {
					assert.Equal(t, 1, s.Snapshot().Remaining.Projectiles, "tick %d", i)
				}
			}
			assert.Zero(t, s.Snapshot().Remaining.Projectiles)
		})
	}
}

func TestShieldBreakGrantsInvulnWindow(t *testing.T) {
	def := flatStage(2000)
	def.Items = []stage.Item{{ID: "m", Kind: stage.ItemModule, At: core.V(100, 480)}}
	def.Enemies = []stage.Enemy{{ID: "e", Kind: stage.EnemyCrawler, At: core.V(200, 486), PatrolMinX: 0, PatrolMaxX: 400, Speed: 80, Direction: -1}}
	events := &sim.EventLog{}
	s := sim.New(sim.Options{Stage: def, Profile: profileWithBackups(3), Events: events})

	var hitTicks []int
	for i := 1; i <= 400 && len(hitTicks) < 2; i++ {
		s.Step(idle(), frameMs)
		snap := s.Snapshot()
		if count(events.Drain(), sim.EventHit) > 0 {
			hitTicks = append(hitTicks, i)
		}
		if len(hitTicks) == 1 && snap.Resources.InvulnMs > 0 {
			assert.Equal(t, 1, snap.Resources.Hits, "no hit lands inside the window")
			assert.Equal(t, sim.PatchRaw, snap.Resources.Patch)
		}
	}

	require.Len(t, hitTicks, 2)
	gapMs := float64(hitTicks[1]-hitTicks[0]) * frameMs
	assert.GreaterOrEqual(t, gapMs, 650-frameMs)
	assert.Equal(t, 2, s.Snapshot().Resources.Hits)
}
