// Package stage defines the static stage data consumed by the simulation:
// geometry, entity placements and gimmick zones. Definitions are loaded
// from YAML once and treated as read-only afterwards.
package stage

import (
	"strconv"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
)

// ItemKind is the kind of a pickup item.
type ItemKind string

const (
	ItemModule   ItemKind = "module"   // one-hit shield
	ItemCompiler ItemKind = "compiler" // unlocks firing
	ItemRootKey  ItemKind = "root_key" // sudo mode
)

// EnemyKind is the behavior an enemy spawn uses.
type EnemyKind string

const (
	EnemyCrawler EnemyKind = "crawler"
	EnemyHopper  EnemyKind = "hopper"
	EnemyDrone   EnemyKind = "drone"
	EnemyChaser  EnemyKind = "chaser"
	EnemyTurret  EnemyKind = "turret"
	EnemyDasher  EnemyKind = "dasher"
)

// Patrols reports whether the kind walks between patrol bounds.
func (k EnemyKind) Patrols() bool {
	return k != EnemyTurret
}

// Size is a world size in pixels.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Gem is a unique collectible counted toward the gem completion ratio.
type Gem struct {
	ID string    `yaml:"id"`
	At core.Vec2 `yaml:",inline"`
}

// Cycle is a minor currency token.
type Cycle struct {
	ID    string    `yaml:"id"`
	At    core.Vec2 `yaml:",inline"`
	Value int       `yaml:"value"`
}

// Item is a power-up pickup.
type Item struct {
	ID   string    `yaml:"id"`
	Kind ItemKind  `yaml:"kind"`
	At   core.Vec2 `yaml:",inline"`
}

// Enemy is an enemy spawn. Direction is the initial patrol direction
// (+1 right, -1 left; zero means right).
type Enemy struct {
	ID            string            `yaml:"id"`
	Kind          EnemyKind         `yaml:"kind"`
	At            core.Vec2         `yaml:",inline"`
	PatrolMinX    float64           `yaml:"patrol_min_x"`
	PatrolMaxX    float64           `yaml:"patrol_max_x"`
	Speed         float64           `yaml:"speed"`
	Direction     float64           `yaml:"direction,omitempty"`
	MinDifficulty config.Difficulty `yaml:"min_difficulty,omitempty"`
}

// Checkpoint is a respawn anchor touched by the player.
type Checkpoint struct {
	ID   string    `yaml:"id"`
	Rect core.Rect `yaml:",inline"`
}

// Port teleports the player from its entry rect to the exit point.
type Port struct {
	ID         string    `yaml:"id"`
	Entry      core.Rect `yaml:"entry"`
	Exit       core.Vec2 `yaml:"exit"`
	CooldownMs float64   `yaml:"cooldown_ms"`
}

// Spring launches a falling player upward.
type Spring struct {
	ID             string    `yaml:"id"`
	Rect           core.Rect `yaml:"rect"`
	BounceVelocity float64   `yaml:"bounce_velocity"`
}

// WindZone pushes actors with a constant force.
type WindZone struct {
	ID     string    `yaml:"id"`
	Rect   core.Rect `yaml:"rect"`
	ForceX float64   `yaml:"force_x"`
	ForceY float64   `yaml:"force_y"`
}

// WaterZone applies a current, buoyancy and drag.
type WaterZone struct {
	ID     string    `yaml:"id"`
	Rect   core.Rect `yaml:"rect"`
	ForceX float64   `yaml:"force_x"`
	ForceY float64   `yaml:"force_y"`
	Drag   float64   `yaml:"drag"`
}

// GravityZone multiplies the gravity scale of actors inside it.
type GravityZone struct {
	ID           string    `yaml:"id"`
	Rect         core.Rect `yaml:"rect"`
	GravityScale float64   `yaml:"gravity_scale"`
}

// RotatorZone applies an oscillating horizontal force.
type RotatorZone struct {
	ID        string    `yaml:"id"`
	Rect      core.Rect `yaml:"rect"`
	Amplitude float64   `yaml:"amplitude"`
	PeriodMs  float64   `yaml:"period_ms"`
}

// CollapsingPlatform falls away after being stood on and comes back later.
type CollapsingPlatform struct {
	ID              string    `yaml:"id"`
	Rect            core.Rect `yaml:"rect"`
	CollapseDelayMs float64   `yaml:"collapse_delay_ms"`
	RespawnMs       float64   `yaml:"respawn_ms"`
}

// Axis is a movement axis for moving platforms.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// MovingPlatform follows offset = sin(t·Speed + Phase)·Travel along Axis,
// with t in seconds.
type MovingPlatform struct {
	ID     string    `yaml:"id"`
	Rect   core.Rect `yaml:"rect"`
	Axis   Axis      `yaml:"axis"`
	Travel float64   `yaml:"travel"`
	Speed  float64   `yaml:"speed"`
	Phase  float64   `yaml:"phase"`
}

// Definition is an immutable stage description.
type Definition struct {
	ID      string `yaml:"id"`
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	Theme   string `yaml:"theme"`
	Gimmick string `yaml:"gimmick"`

	Size      Size        `yaml:"size"`
	Spawn     core.Vec2   `yaml:"spawn"`
	Goal      core.Rect   `yaml:"goal"`
	Platforms []core.Rect `yaml:"platforms"`

	Gems        []Gem        `yaml:"gems"`
	Cycles      []Cycle      `yaml:"cycles"`
	Items       []Item       `yaml:"items"`
	Enemies     []Enemy      `yaml:"enemies"`
	Checkpoints []Checkpoint `yaml:"checkpoints"`
	Ports       []Port       `yaml:"ports"`
	Springs     []Spring     `yaml:"springs"`

	WindZones    []WindZone    `yaml:"wind_zones"`
	WaterZones   []WaterZone   `yaml:"water_zones"`
	GravityZones []GravityZone `yaml:"gravity_zones"`
	RotatorZones []RotatorZone `yaml:"rotator_zones"`

	CollapsingPlatforms []CollapsingPlatform `yaml:"collapsing_platforms"`
	MovingPlatforms     []MovingPlatform     `yaml:"moving_platforms"`

	TimeTargetMs float64 `yaml:"time_target_ms"`
}

// Bounds returns the world rectangle.
func (d *Definition) Bounds() core.Rect {
	return core.NewRect(0, 0, d.Size.Width, d.Size.Height)
}

// EnemiesFor returns the enemy spawns that appear at difficulty diff.
func (d *Definition) EnemiesFor(diff config.Difficulty) []Enemy {
	out := make([]Enemy, 0, len(d.Enemies))
	for _, e := range d.Enemies {
		if config.CanSpawn(diff, e.MinDifficulty) {
			out = append(out, e)
		}
	}
	return out
}

// Title returns "N. Name" for menus and tables.
func (d *Definition) Title() string {
	return strconv.Itoa(d.Index) + ". " + d.Name
}
