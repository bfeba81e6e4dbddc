package config

import "sync"

// Resolver supplies the fully resolved MovementTuning for one difficulty.
// User overrides may change while a run is in progress; the simulation
// re-reads Tuning every tick, so edits take effect on the next tick.
type Resolver struct {
	mu         sync.RWMutex
	file       TuningFile
	difficulty Difficulty
	user       TuningOverride
	resolved   MovementTuning
}

// NewResolver creates a resolver for difficulty d. The user layer is
// sanitized before use.
func NewResolver(file TuningFile, d Difficulty, user TuningOverride) *Resolver {
	r := &Resolver{
		file:       file,
		difficulty: d,
		user:       SanitizeOverride(user),
	}
	r.resolved = file.Resolve(d, r.user)
	return r
}

// Tuning returns the current resolved tuning.
func (r *Resolver) Tuning() MovementTuning {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved
}

// Difficulty returns the difficulty this resolver was built for.
func (r *Resolver) Difficulty() Difficulty {
	return r.difficulty
}

// Profile returns the enemy scaling profile for the resolver's difficulty.
func (r *Resolver) Profile() DifficultyProfile {
	return r.file.Profile(r.difficulty)
}

// Set overrides one editable field and returns the stored (clamped and
// snapped) value.
func (r *Resolver) Set(key string, v float64) (float64, error) {
	f, ok := FieldByKey(key)
	if !ok {
		return 0, ValidateOverrideKey(key)
	}
	stored := f.ClampAndSnap(v)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.user[key] = stored
	r.resolved = r.file.Resolve(r.difficulty, r.user)
	return stored, nil
}

// Reset drops every user override.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = TuningOverride{}
	r.resolved = r.file.Resolve(r.difficulty, r.user)
}

// Overrides returns a copy of the current user layer.
func (r *Resolver) Overrides() TuningOverride {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(TuningOverride, len(r.user))
	for k, v := range r.user {
		out[k] = v
	}
	return out
}
