package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory name under $HOME.
const AppDir = ".runtimezero"

// LoadTuning loads the tuning file.
// Search order: customPath -> ~/.runtimezero/configs/tuning.yaml ->
// ./configs/tuning.yaml -> embedded default.
//
// Files found on disk are layered over the built-in defaults, so a file
// only needs to list the values it changes.
func LoadTuning(customPath string) (TuningFile, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TuningFile{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := ParseTuning(data)
		if err != nil {
			return TuningFile{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath("tuning.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseTuning(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "tuning.yaml")); err == nil {
		if cfg, err := ParseTuning(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseTuning(defaultTuningYAML)
	if err != nil {
		return DefaultTuningFile(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseTuning decodes a tuning file on top of DefaultTuningFile.
func ParseTuning(data []byte) (TuningFile, error) {
	cfg := DefaultTuningFile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TuningFile{}, err
	}
	return cfg, nil
}

// UserConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func UserConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir, "configs", filename)
}
