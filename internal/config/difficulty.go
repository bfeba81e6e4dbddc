package config

import (
	"fmt"
	"strings"
)

// Difficulty is a named difficulty level. It selects a movement override
// layer and a DifficultyProfile, and gates enemy spawns.
type Difficulty string

const (
	DifficultyChill    Difficulty = "chill"
	DifficultyStandard Difficulty = "standard"
	DifficultyMean     Difficulty = "mean"
)

// Difficulties lists the levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyChill, DifficultyStandard, DifficultyMean}

// ParseDifficulty parses a difficulty name case-insensitively.
// The empty string means standard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chill":
		return DifficultyChill, nil
	case "", "standard":
		return DifficultyStandard, nil
	case "mean":
		return DifficultyMean, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want chill, standard or mean)", s)
}

// Level returns the position of d in Difficulties, or -1 if unknown.
func (d Difficulty) Level() int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return -1
}

// Title returns the display name, e.g. "Chill".
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Next returns the next harder difficulty, wrapping to the easiest.
func (d Difficulty) Next() Difficulty {
	i := d.Level()
	return Difficulties[(i+1)%len(Difficulties)]
}

// CanSpawn reports whether an entity gated at minimum difficulty min
// appears when playing at d. An empty min always spawns.
func CanSpawn(d, min Difficulty) bool {
	if min == "" {
		return true
	}
	return d.Level() >= min.Level()
}

// DefaultProfile returns the built-in enemy scaling for d.
func DefaultProfile(d Difficulty) DifficultyProfile {
	switch d {
	case DifficultyChill:
		return DifficultyProfile{
			EnemySpeedScale:      0.85,
			TurretRange:          360,
			TurretFireIntervalMs: 2200,
			EnemyShotSpeed:       300,
			ChaserDetectRadius:   220,
			DasherCooldownMs:     2400,
			StartingBackups:      4,
		}
	case DifficultyMean:
		return DifficultyProfile{
			EnemySpeedScale:      1.18,
			TurretRange:          500,
			TurretFireIntervalMs: 1400,
			EnemyShotSpeed:       400,
			ChaserDetectRadius:   340,
			DasherCooldownMs:     1500,
			StartingBackups:      2,
		}
	default:
		return DifficultyProfile{
			EnemySpeedScale:      1,
			TurretRange:          420,
			TurretFireIntervalMs: 1800,
			EnemyShotSpeed:       350,
			ChaserDetectRadius:   280,
			DasherCooldownMs:     1900,
			StartingBackups:      3,
		}
	}
}
