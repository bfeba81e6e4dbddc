package sim

import (
	"github.com/vovakirdan/runtime-zero/internal/core"
)

const (
	shotSize         = 8.0
	playerShotLifeMs = 900.0
)

// Owner identifies who fired a projectile.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

// Projectile is a straight-line shot with a finite lifetime.
type Projectile struct {
	Owner  Owner
	Rect   core.Rect
	Vel    core.Vec2
	LifeMs float64
	Alive  bool
}

func newShot(owner Owner, from, vel core.Vec2, lifeMs float64) *Projectile {
	return &Projectile{
		Owner:  owner,
		Rect:   core.RectAround(from, shotSize, shotSize),
		Vel:    vel,
		LifeMs: lifeMs,
		Alive:  true,
	}
}

// advance moves the shot and expires it when its lifetime runs out.
func (p *Projectile) advance(dtMs float64) {
	if !p.Alive {
		return
	}
	p.Rect = p.Rect.Moved(p.Vel.Scale(dtMs / 1000))
	tick(&p.LifeMs, dtMs)
	if p.LifeMs <= 0 {
		p.Alive = false
	}
}
