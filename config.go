package randpart

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the host binary's on-disk configuration: everything the core
// needs to start up plus the window parameters the out-of-scope renderer
// collaborator consumes. It has no bearing on core behavior beyond what's
// passed to New — the core itself never touches the filesystem.
type Config struct {
	Capacity             int    `yaml:"capacity"`
	Layout               string `yaml:"layout"`
	StopAfterInitialLoad bool   `yaml:"stop_after_initial_load"`
	Debug                bool   `yaml:"debug"`
	WorkerCount          int    `yaml:"worker_count"`

	Window struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Title  string `yaml:"title"`
	} `yaml:"window"`
}

// DefaultConfig mirrors the values a freshly-cloned randpart would run
// with: a modest cloud, rejection-sampled (discard) cartesian sampling,
// stop-on-first-fill disabled.
func DefaultConfig() Config {
	cfg := Config{
		Capacity:             20000,
		Layout:               RandomCartesianDiscard.String(),
		StopAfterInitialLoad: false,
		Debug:                false,
	}
	cfg.Window.Width = 1280
	cfg.Window.Height = 720
	cfg.Window.Title = "randpart"
	return cfg
}

// LoadConfig reads and parses a YAML config file on top of DefaultConfig:
// any field the file does not set keeps its default value, while a field
// the file sets explicitly (even to zero) takes the file's value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("randpart: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("randpart: parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseLayout maps a config's layout name to a Layout, defaulting to
// RandomCartesianDiscard for an empty or unrecognized name.
func ParseLayout(name string) Layout {
	for _, l := range []Layout{
		RandomCartesianNaive,
		RandomCartesianDiscard,
		RandomSphericalNaive,
		RandomSphericalLatitude,
		RandomCartesianCube,
		DemoDualColorSlice,
	} {
		if l.String() == name {
			return l
		}
	}
	return RandomCartesianDiscard
}
