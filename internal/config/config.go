// Package config provides YAML-based movement tuning, difficulty layers and
// user override resolution for the runtime.
package config

// MovementTuning is the immutable scalar bundle that drives the player
// motion controller. Speeds are px/s, accelerations px/s², times ms.
// Velocities are stored as positive magnitudes; the controller applies
// direction.
type MovementTuning struct {
	WalkSpeed           float64 `yaml:"walk_speed" json:"walk_speed"`
	RunSpeed            float64 `yaml:"run_speed" json:"run_speed"`
	GroundAcceleration  float64 `yaml:"ground_acceleration" json:"ground_acceleration"`
	AirAcceleration     float64 `yaml:"air_acceleration" json:"air_acceleration"`
	GroundDeceleration  float64 `yaml:"ground_deceleration" json:"ground_deceleration"`
	AirDeceleration     float64 `yaml:"air_deceleration" json:"air_deceleration"`
	JumpVelocity        float64 `yaml:"jump_velocity" json:"jump_velocity"`
	JumpCutVelocity     float64 `yaml:"jump_cut_velocity" json:"jump_cut_velocity"`
	Gravity             float64 `yaml:"gravity" json:"gravity"`
	MaxFallSpeed        float64 `yaml:"max_fall_speed" json:"max_fall_speed"`
	CoyoteTimeMs        float64 `yaml:"coyote_time_ms" json:"coyote_time_ms"`
	JumpBufferMs        float64 `yaml:"jump_buffer_ms" json:"jump_buffer_ms"`
	WallJumpXVelocity   float64 `yaml:"wall_jump_x_velocity" json:"wall_jump_x_velocity"`
	WallJumpYVelocity   float64 `yaml:"wall_jump_y_velocity" json:"wall_jump_y_velocity"`
	SlideSpeed          float64 `yaml:"slide_speed" json:"slide_speed"`
	SlideDurationMs     float64 `yaml:"slide_duration_ms" json:"slide_duration_ms"`
	SlideEnterBoost     float64 `yaml:"slide_enter_boost" json:"slide_enter_boost"`
	GroundPoundVelocity float64 `yaml:"ground_pound_velocity" json:"ground_pound_velocity"`
	GroundPoundLockMs   float64 `yaml:"ground_pound_lock_ms" json:"ground_pound_lock_ms"`
	CameraLookAhead     float64 `yaml:"camera_look_ahead" json:"camera_look_ahead"`
	CameraLookAheadDash float64 `yaml:"camera_look_ahead_dash" json:"camera_look_ahead_dash"`
	KnockbackStrength   float64 `yaml:"knockback_strength" json:"knockback_strength"`
	InvulnTimeMs        float64 `yaml:"invuln_time_ms" json:"invuln_time_ms"`
	FireCooldownMs      float64 `yaml:"fire_cooldown_ms" json:"fire_cooldown_ms"`
	ShotSpeed           float64 `yaml:"shot_speed" json:"shot_speed"`
}

// TuningOverride is a sparse per-field override layer keyed by the YAML
// field name (for example "coyote_time_ms"). Unknown keys are ignored.
type TuningOverride map[string]float64

// DifficultyProfile holds the non-movement knobs a difficulty controls:
// enemy scaling and the starting number of backups.
type DifficultyProfile struct {
	EnemySpeedScale      float64 `yaml:"enemy_speed_scale" json:"enemy_speed_scale"`
	TurretRange          float64 `yaml:"turret_range" json:"turret_range"`
	TurretFireIntervalMs float64 `yaml:"turret_fire_interval_ms" json:"turret_fire_interval_ms"`
	EnemyShotSpeed       float64 `yaml:"enemy_shot_speed" json:"enemy_shot_speed"`
	ChaserDetectRadius   float64 `yaml:"chaser_detect_radius" json:"chaser_detect_radius"`
	DasherCooldownMs     float64 `yaml:"dasher_cooldown_ms" json:"dasher_cooldown_ms"`
	StartingBackups      int     `yaml:"starting_backups" json:"starting_backups"`
}

// TuningFile is the on-disk layout of tuning.yaml.
type TuningFile struct {
	Base      MovementTuning                   `yaml:"base"`
	Overrides map[Difficulty]TuningOverride    `yaml:"difficulty_overrides"`
	Profiles  map[Difficulty]DifficultyProfile `yaml:"difficulty_profiles"`
}

// Profile returns the profile for d, falling back to the built-in profile
// when the file does not define one.
func (f TuningFile) Profile(d Difficulty) DifficultyProfile {
	if p, ok := f.Profiles[d]; ok {
		return p
	}
	return DefaultProfile(d)
}

// Resolve layers the tuning as base, then difficulty override, then user
// override. Later layers win per field.
func (f TuningFile) Resolve(d Difficulty, user TuningOverride) MovementTuning {
	t := f.Base
	t.Apply(f.Overrides[d])
	t.Apply(user)
	return t
}

// Apply copies every known field present in o onto t.
func (t *MovementTuning) Apply(o TuningOverride) {
	for key, v := range o {
		if p := t.field(key); p != nil {
			*p = v
		}
	}
}

// Get returns the value of the named field.
func (t MovementTuning) Get(key string) (float64, bool) {
	p := t.field(key)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (t *MovementTuning) field(key string) *float64 {
	switch key {
	case "walk_speed":
		return &t.WalkSpeed
	case "run_speed":
		return &t.RunSpeed
	case "ground_acceleration":
		return &t.GroundAcceleration
	case "air_acceleration":
		return &t.AirAcceleration
	case "ground_deceleration":
		return &t.GroundDeceleration
	case "air_deceleration":
		return &t.AirDeceleration
	case "jump_velocity":
		return &t.JumpVelocity
	case "jump_cut_velocity":
		return &t.JumpCutVelocity
	case "gravity":
		return &t.Gravity
	case "max_fall_speed":
		return &t.MaxFallSpeed
	case "coyote_time_ms":
		return &t.CoyoteTimeMs
	case "jump_buffer_ms":
		return &t.JumpBufferMs
	case "wall_jump_x_velocity":
		return &t.WallJumpXVelocity
	case "wall_jump_y_velocity":
		return &t.WallJumpYVelocity
	case "slide_speed":
		return &t.SlideSpeed
	case "slide_duration_ms":
		return &t.SlideDurationMs
	case "slide_enter_boost":
		return &t.SlideEnterBoost
	case "ground_pound_velocity":
		return &t.GroundPoundVelocity
	case "ground_pound_lock_ms":
		return &t.GroundPoundLockMs
	case "camera_look_ahead":
		return &t.CameraLookAhead
	case "camera_look_ahead_dash":
		return &t.CameraLookAheadDash
	case "knockback_strength":
		return &t.KnockbackStrength
	case "invuln_time_ms":
		return &t.InvulnTimeMs
	case "fire_cooldown_ms":
		return &t.FireCooldownMs
	case "shot_speed":
		return &t.ShotSpeed
	}
	return nil
}
