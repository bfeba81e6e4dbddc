package sim

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/physics"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// Enemy tuning. Speeds are px/s, times ms.
const (
	enemySize          = 28.0
	droneHeight        = 20.0
	turretSize         = 30.0
	hopperVelocity     = 520.0
	hopperIntervalMs   = 1400.0
	droneBobAmplitude  = 24.0
	droneBobPeriodMs   = 2000.0
	chaserSpeedFactor  = 1.6
	chaserVerticalSpan = 120.0
	dasherSpeedFactor  = 3.2
	dasherDashMs       = 320.0
	enemyShotLifeMs    = 2200.0
	defaultEnemySpeed  = 80.0
)

// Enemy is the runtime record of one enemy spawn.
type Enemy struct {
	ID    string
	Kind  stage.EnemyKind
	Body  physics.Body
	Speed float64 // difficulty scaled
	MinX  float64
	MaxX  float64
	Dir   float64
	Alive bool

	grounded bool
	behavior behavior
}

// enemyContext is what a behavior may read during its update.
type enemyContext struct {
	dtMs    float64
	elapsed float64
	target  core.Vec2 // player center
	profile config.DifficultyProfile
}

// behavior is the closed set of enemy AI variants. Each variant sets the
// enemy's intended velocity for the tick and may fire a shot.
type behavior interface {
	think(e *Enemy, ctx enemyContext) *Projectile
	// floating behaviors ignore gravity, zones and collision.
	floating() bool
}

type patrolBehavior struct{}

type hopperBehavior struct {
	untilHopMs float64
}

type droneBehavior struct {
	baseY float64
}

type turretBehavior struct {
	cooldownMs float64
}

type chaserBehavior struct{}

type dasherBehavior struct {
	cooldownMs float64
	dashMs     float64
	dashDir    float64
}

func (patrolBehavior) floating() bool  { return false }
func (*hopperBehavior) floating() bool { return false }
func (*droneBehavior) floating() bool  { return true }
func (*turretBehavior) floating() bool { return true }
func (chaserBehavior) floating() bool  { return false }
func (*dasherBehavior) floating() bool { return false }

// newEnemy builds the runtime record for a spawn. Positions are body
// centers.
func newEnemy(def stage.Enemy, profile config.DifficultyProfile) *Enemy {
	speed := def.Speed
	if speed <= 0 {
		speed = defaultEnemySpeed
	}
	if profile.EnemySpeedScale > 0 {
		speed *= profile.EnemySpeedScale
	}
	dir := def.Direction
	if dir == 0 {
		dir = 1
	}

	w, h := enemySize, enemySize
	var b behavior
	switch def.Kind {
	case stage.EnemyHopper:
		b = &hopperBehavior{untilHopMs: hopperIntervalMs}
	case stage.EnemyDrone:
		h = droneHeight
		b = &droneBehavior{baseY: def.At.Y}
	case stage.EnemyTurret:
		w, h = turretSize, turretSize
		b = &turretBehavior{cooldownMs: profile.TurretFireIntervalMs}
	case stage.EnemyChaser:
		b = chaserBehavior{}
	case stage.EnemyDasher:
		b = &dasherBehavior{cooldownMs: profile.DasherCooldownMs}
	default:
		b = patrolBehavior{}
	}

	return &Enemy{
		ID:       def.ID,
		Kind:     def.Kind,
		Body:     physics.Body{Rect: core.RectAround(def.At, w, h)},
		Speed:    speed,
		MinX:     math.Min(def.PatrolMinX, def.PatrolMaxX),
		MaxX:     math.Max(def.PatrolMinX, def.PatrolMaxX),
		Dir:      dir,
		Alive:    true,
		behavior: b,
	}
}

// Floating reports whether the enemy ignores gravity and zones.
func (e *Enemy) Floating() bool {
	return e.behavior.floating()
}

// Center returns the body center.
func (e *Enemy) Center() core.Vec2 {
	return e.Body.Center()
}

// patrol turns around at the patrol bounds or a wall and walks.
func (e *Enemy) patrol() {
	x := e.Center().X
	switch {
	case x <= e.MinX:
		e.Dir = 1
	case x >= e.MaxX:
		e.Dir = -1
	case e.Body.Blocked.Has(physics.ContactLeft):
		e.Dir = 1
	case e.Body.Blocked.Has(physics.ContactRight):
		e.Dir = -1
	}
	e.Body.Vel.X = e.Dir * e.Speed
}

func (patrolBehavior) think(e *Enemy, _ enemyContext) *Projectile {
	e.patrol()
	return nil
}

func (b *hopperBehavior) think(e *Enemy, ctx enemyContext) *Projectile {
	e.patrol()
	tick(&b.untilHopMs, ctx.dtMs)
	if e.grounded && b.untilHopMs <= 0 {
		e.Body.Vel.Y = -hopperVelocity
		b.untilHopMs = hopperIntervalMs
	}
	return nil
}

func (b *droneBehavior) think(e *Enemy, ctx enemyContext) *Projectile {
	e.patrol()
	phase := 2 * math.Pi * math.Mod(ctx.elapsed, droneBobPeriodMs) / droneBobPeriodMs
	c := e.Center()
	e.Body.Rect = e.Body.Rect.WithCenter(core.V(c.X, b.baseY+math.Sin(phase)*droneBobAmplitude))
	e.Body.Vel.Y = 0
	return nil
}

func (b *turretBehavior) think(e *Enemy, ctx enemyContext) *Projectile {
	e.Body.Vel = core.Vec2{}
	tick(&b.cooldownMs, ctx.dtMs)
	if b.cooldownMs > 0 {
		return nil
	}
	aim := ctx.target.Sub(e.Center())
	if aim.Len() > ctx.profile.TurretRange || aim.Len() == 0 {
		return nil
	}
	b.cooldownMs = ctx.profile.TurretFireIntervalMs
	return newShot(OwnerEnemy, e.Center(), aim.Normalize().Scale(ctx.profile.EnemyShotSpeed), enemyShotLifeMs)
}

func (chaserBehavior) think(e *Enemy, ctx enemyContext) *Projectile {
	d := ctx.target.Sub(e.Center())
	if math.Abs(d.X) <= ctx.profile.ChaserDetectRadius && math.Abs(d.Y) <= chaserVerticalSpan {
		if s := core.Sign(d.X); s != 0 {
			e.Dir = s
		}
		e.Body.Vel.X = e.Dir * e.Speed * chaserSpeedFactor
		return nil
	}
	e.patrol()
	return nil
}

func (b *dasherBehavior) think(e *Enemy, ctx enemyContext) *Projectile {
	if b.dashMs > 0 {
		tick(&b.dashMs, ctx.dtMs)
		e.Body.Vel.X = b.dashDir * e.Speed * dasherSpeedFactor
		return nil
	}

	tick(&b.cooldownMs, ctx.dtMs)
	if b.cooldownMs <= 0 {
		b.dashDir = core.Sign(ctx.target.X - e.Center().X)
		if b.dashDir == 0 {
			b.dashDir = e.Dir
		}
		e.Dir = b.dashDir
		b.dashMs = dasherDashMs
		b.cooldownMs = ctx.profile.DasherCooldownMs
		e.Body.Vel.X = b.dashDir * e.Speed * dasherSpeedFactor
		return nil
	}
	e.patrol()
	return nil
}

// Dashing reports whether a dasher is mid-burst.
func (e *Enemy) Dashing() bool {
	d, ok := e.behavior.(*dasherBehavior)
	return ok && d.dashMs > 0
}
