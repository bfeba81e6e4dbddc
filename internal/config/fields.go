package config

import (
	"fmt"
	"math"
)

// TuningField describes a user-editable tuning field and its legal range.
type TuningField struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Step  float64
}

// TuningFields lists the fields a player may override, in display order.
var TuningFields = []TuningField{
	{Key: "walk_speed", Label: "Walk Speed", Min: 120, Max: 500, Step: 10},
	{Key: "run_speed", Label: "Run Speed", Min: 160, Max: 650, Step: 10},
	{Key: "ground_acceleration", Label: "Ground Accel", Min: 600, Max: 4200, Step: 50},
	{Key: "air_acceleration", Label: "Air Accel", Min: 400, Max: 3200, Step: 50},
	{Key: "ground_deceleration", Label: "Ground Decel", Min: 600, Max: 4500, Step: 50},
	{Key: "air_deceleration", Label: "Air Decel", Min: 200, Max: 2200, Step: 50},
	{Key: "jump_velocity", Label: "Jump Velocity", Min: 280, Max: 1100, Step: 10},
	{Key: "gravity", Label: "Gravity", Min: 500, Max: 2800, Step: 50},
	{Key: "max_fall_speed", Label: "Max Fall Speed", Min: 280, Max: 1900, Step: 20},
	{Key: "coyote_time_ms", Label: "Coyote (ms)", Min: 0, Max: 300, Step: 10},
	{Key: "jump_buffer_ms", Label: "Jump Buffer (ms)", Min: 0, Max: 300, Step: 10},
	{Key: "wall_jump_x_velocity", Label: "Wall Jump X", Min: 100, Max: 700, Step: 10},
	{Key: "wall_jump_y_velocity", Label: "Wall Jump Y", Min: 260, Max: 1100, Step: 10},
	{Key: "slide_speed", Label: "Slide Speed", Min: 220, Max: 700, Step: 10},
	{Key: "slide_duration_ms", Label: "Slide Duration (ms)", Min: 80, Max: 700, Step: 20},
	{Key: "ground_pound_velocity", Label: "Ground Pound Speed", Min: 500, Max: 2200, Step: 20},
	{Key: "camera_look_ahead", Label: "Camera Lookahead", Min: 0, Max: 320, Step: 5},
	{Key: "camera_look_ahead_dash", Label: "Camera Dash Lookahead", Min: 0, Max: 420, Step: 5},
	{Key: "knockback_strength", Label: "Knockback Strength", Min: 0, Max: 700, Step: 10},
	{Key: "invuln_time_ms", Label: "Invuln Time (ms)", Min: 0, Max: 2200, Step: 20},
}

// FieldByKey looks up an editable field.
func FieldByKey(key string) (TuningField, bool) {
	for _, f := range TuningFields {
		if f.Key == key {
			return f, true
		}
	}
	return TuningField{}, false
}

// ClampAndSnap clamps v to the field range, snaps it to the nearest step
// and clamps again so snapping never escapes the range.
func (f TuningField) ClampAndSnap(v float64) float64 {
	clamped := clampF(v, f.Min, f.Max)
	snapped := clamped
	if f.Step > 0 {
		snapped = math.Round(clamped/f.Step) * f.Step
	}
	return clampF(snapped, f.Min, f.Max)
}

// SanitizeOverride returns a copy of o restricted to editable fields, with
// every value clamped and snapped. NaN and infinite values are dropped.
func SanitizeOverride(o TuningOverride) TuningOverride {
	out := make(TuningOverride, len(o))
	for key, v := range o {
		f, ok := FieldByKey(key)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[key] = f.ClampAndSnap(v)
	}
	return out
}

// ValidateOverrideKey returns an error if key is not a user-editable field.
func ValidateOverrideKey(key string) error {
	if _, ok := FieldByKey(key); !ok {
		return fmt.Errorf("config: %q is not an editable tuning field", key)
	}
	return nil
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
