// Package config persists the application configuration, including the
// calibration profile, as a JSON file in the working directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/silentbyte/quackhunt/internal/calib"
)

// DefaultPath is the configuration file name, resolved against the
// working directory.
const DefaultPath = "quackhunt.json"

// Config is everything loaded at startup: camera selection plus the
// calibration profile.
type Config struct {
	VideoCaptureIndex int           `json:"video_capture_index"`
	FlipVertically    bool          `json:"flip_vertically"`
	FlipHorizontally  bool          `json:"flip_horizontally"`
	Profile           calib.Profile `json:"profile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		VideoCaptureIndex: 0,
		Profile:           calib.DefaultProfile(),
	}
}

// Load reads the configuration from path. A missing or malformed file is
// never fatal: the built-in defaults are returned along with the load
// error so the caller can log the fallback.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save overwrites the configuration file wholesale.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}

	return nil
}
