package stage

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid stage")

// Validate checks structural constraints the simulation relies on.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if d.Size.Width <= 0 || d.Size.Height <= 0 {
		return fmt.Errorf("%w: %s: size must be positive", ErrInvalid, d.ID)
	}
	if d.Goal.W <= 0 || d.Goal.H <= 0 {
		return fmt.Errorf("%w: %s: goal must have an area", ErrInvalid, d.ID)
	}
	if !d.Bounds().Contains(d.Spawn) {
		return fmt.Errorf("%w: %s: spawn %v outside the stage", ErrInvalid, d.ID, d.Spawn)
	}
	for i, p := range d.Platforms {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("%w: %s: platform %d has no area", ErrInvalid, d.ID, i)
		}
	}

	seen := make(map[string]bool)
	unique := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%w: %s: %s without id", ErrInvalid, d.ID, kind)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s: duplicate id %q", ErrInvalid, d.ID, id)
		}
		seen[id] = true
		return nil
	}

	for _, g := range d.Gems {
		if err := unique("gem", g.ID); err != nil {
			return err
		}
	}
	for _, c := range d.Cycles {
		if err := unique("cycle", c.ID); err != nil {
			return err
		}
		if c.Value < 0 {
			return fmt.Errorf("%w: %s: cycle %s has negative value", ErrInvalid, d.ID, c.ID)
		}
	}
	for _, it := range d.Items {
		if err := unique("item", it.ID); err != nil {
			return err
		}
		switch it.Kind {
		case ItemModule, ItemCompiler, ItemRootKey:
		default:
			return fmt.Errorf("%w: %s: item %s has unknown kind %q", ErrInvalid, d.ID, it.ID, it.Kind)
		}
	}
	for _, e := range d.Enemies {
		if err := unique("enemy", e.ID); err != nil {
			return err
		}
		if err := validateEnemy(e); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, d.ID, err)
		}
	}
	for _, c := range d.Checkpoints {
		if err := unique("checkpoint", c.ID); err != nil {
			return err
		}
	}
	for _, p := range d.Ports {
		if err := unique("port", p.ID); err != nil {
			return err
		}
		if !d.Bounds().Contains(p.Exit) {
			return fmt.Errorf("%w: %s: port %s exits outside the stage", ErrInvalid, d.ID, p.ID)
		}
	}
	for _, s := range d.Springs {
		if err := unique("spring", s.ID); err != nil {
			return err
		}
	}
	for _, z := range d.WindZones {
		if err := unique("wind zone", z.ID); err != nil {
			return err
		}
	}
	for _, z := range d.WaterZones {
		if err := unique("water zone", z.ID); err != nil {
			return err
		}
		if z.Drag <= 0 || z.Drag > 1 {
			return fmt.Errorf("%w: %s: water zone %s drag %v not in (0, 1]", ErrInvalid, d.ID, z.ID, z.Drag)
		}
	}
	for _, z := range d.GravityZones {
		if err := unique("gravity zone", z.ID); err != nil {
			return err
		}
	}
	for _, z := range d.RotatorZones {
		if err := unique("rotator zone", z.ID); err != nil {
			return err
		}
		if z.PeriodMs <= 0 {
			return fmt.Errorf("%w: %s: rotator %s needs a positive period", ErrInvalid, d.ID, z.ID)
		}
	}
	for _, p := range d.CollapsingPlatforms {
		if err := unique("collapsing platform", p.ID); err != nil {
			return err
		}
	}
	for _, p := range d.MovingPlatforms {
		if err := unique("moving platform", p.ID); err != nil {
			return err
		}
		if p.Axis != AxisX && p.Axis != AxisY {
			return fmt.Errorf("%w: %s: moving platform %s has axis %q", ErrInvalid, d.ID, p.ID, p.Axis)
		}
	}
	return nil
}

func validateEnemy(e Enemy) error {
	switch e.Kind {
	case EnemyCrawler, EnemyHopper, EnemyDrone, EnemyChaser, EnemyDasher:
		if e.PatrolMinX > e.PatrolMaxX {
			return fmt.Errorf("enemy %s patrol range is inverted", e.ID)
		}
	case EnemyTurret:
	default:
		return fmt.Errorf("enemy %s has unknown kind %q", e.ID, e.Kind)
	}
	if e.MinDifficulty != "" && e.MinDifficulty.Level() < 0 {
		return fmt.Errorf("enemy %s has unknown min_difficulty %q", e.ID, e.MinDifficulty)
	}
	if e.Speed < 0 {
		return fmt.Errorf("enemy %s has negative speed", e.ID)
	}
	return nil
}
