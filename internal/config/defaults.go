package config

import (
	_ "embed"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// DefaultTuningYAML returns the embedded default tuning file, used by the
// CLI to print a starting point for custom configs.
func DefaultTuningYAML() []byte {
	return defaultTuningYAML
}

// DefaultTuning returns the base movement tuning before any difficulty or
// user layer.
func DefaultTuning() MovementTuning {
	return MovementTuning{
		WalkSpeed:           300,
		RunSpeed:            420,
		GroundAcceleration:  2100,
		AirAcceleration:     1450,
		GroundDeceleration:  2500,
		AirDeceleration:     900,
		JumpVelocity:        760,
		JumpCutVelocity:     300,
		Gravity:             1800,
		MaxFallSpeed:        980,
		CoyoteTimeMs:        120,
		JumpBufferMs:        120,
		WallJumpXVelocity:   390,
		WallJumpYVelocity:   720,
		SlideSpeed:          460,
		SlideDurationMs:     300,
		SlideEnterBoost:     55,
		GroundPoundVelocity: 1200,
		GroundPoundLockMs:   120,
		CameraLookAhead:     120,
		CameraLookAheadDash: 220,
		KnockbackStrength:   280,
		InvulnTimeMs:        650,
		FireCooldownMs:      240,
		ShotSpeed:           610,
	}
}

// DefaultTuningFile returns the hardcoded tuning file: base tuning, the
// chill and mean override layers and the built-in difficulty profiles.
func DefaultTuningFile() TuningFile {
	return TuningFile{
		Base: DefaultTuning(),
		Overrides: map[Difficulty]TuningOverride{
			DifficultyChill: {
				"walk_speed":             290,
				"run_speed":              395,
				"gravity":                1650,
				"coyote_time_ms":         180,
				"jump_buffer_ms":         170,
				"camera_look_ahead":      105,
				"camera_look_ahead_dash": 195,
				"invuln_time_ms":         850,
				"fire_cooldown_ms":       180,
			},
			DifficultyStandard: {},
			DifficultyMean: {
				"walk_speed":             320,
				"run_speed":              450,
				"gravity":                1950,
				"coyote_time_ms":         80,
				"jump_buffer_ms":         80,
				"camera_look_ahead":      130,
				"camera_look_ahead_dash": 240,
				"invuln_time_ms":         520,
				"fire_cooldown_ms":       270,
			},
		},
		Profiles: map[Difficulty]DifficultyProfile{
			DifficultyChill:    DefaultProfile(DifficultyChill),
			DifficultyStandard: DefaultProfile(DifficultyStandard),
			DifficultyMean:     DefaultProfile(DifficultyMean),
		},
	}
}
