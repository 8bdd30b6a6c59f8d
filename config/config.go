package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/arbor/tree"
)

// FileName is the config file looked up in a workspace root.
const FileName = "arbor.yaml"

// Config tunes the engine. Zero values fall back to the engine
// defaults.
type Config struct {
	// DebounceMillis is how long the scheduler waits after the last
	// edit before a background update pass.
	DebounceMillis int `yaml:"debounce_ms"`
	// DamageThreshold is the queued edit volume above which an update
	// pass reparses instead of invalidating.
	DamageThreshold int `yaml:"damage_threshold"`
	// Verbosity raises log output: 0 errors and warnings, 1 info,
	// 2 debug.
	Verbosity int `yaml:"verbosity"`
}

func Default() Config {
	return Config{
		DebounceMillis:  int(tree.DefaultDebounce / time.Millisecond),
		DamageThreshold: tree.DefaultDamageThreshold,
	}
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DebounceMillis < 0 || cfg.DamageThreshold < 0 {
		return cfg, fmt.Errorf("%s: durations and thresholds must not be negative", path)
	}
	return cfg, nil
}

// LoadDir reads the workspace config from dir, defaulting when absent.
func LoadDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// TreeOptions converts the config into engine options.
func (c Config) TreeOptions() []tree.Option {
	var opts []tree.Option
	if c.DebounceMillis > 0 {
		opts = append(opts, tree.WithDebounce(time.Duration(c.DebounceMillis)*time.Millisecond))
	}
	if c.DamageThreshold > 0 {
		opts = append(opts, tree.WithDamageThreshold(c.DamageThreshold))
	}
	return opts
}
