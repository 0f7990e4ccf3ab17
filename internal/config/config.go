// Package config owns the run configuration: where the data lives, where
// artifacts go, and how the spectrum is binned.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Zoom names a fixed mass window rendered as its own histogram, e.g. a
// resonance region.
type Zoom struct {
	Name string  `mapstructure:"name" yaml:"name"`
	Lo   float64 `mapstructure:"lo" yaml:"lo"`
	Hi   float64 `mapstructure:"hi" yaml:"hi"`
}

// Run is the full configuration for one analysis run.
type Run struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	OutDir  string `mapstructure:"out_dir" yaml:"out_dir"`

	// Bins and the mass range govern the primary spectrum plot.
	Bins    int     `mapstructure:"bins" yaml:"bins"`
	MassMin float64 `mapstructure:"mass_min" yaml:"mass_min"`
	MassMax float64 `mapstructure:"mass_max" yaml:"mass_max"`

	ResidualBins int `mapstructure:"residual_bins" yaml:"residual_bins"`

	// ZoomWindows is optional; an empty list renders no zoom figures.
	ZoomWindows []Zoom `mapstructure:"zoom_windows" yaml:"zoom_windows"`
}

// DefaultZoomWindows cover the dimuon resonances an analyst looks for first.
func DefaultZoomWindows() []Zoom {
	return []Zoom{
		{Name: "jpsi", Lo: 2.5, Hi: 4.0},
		{Name: "upsilon", Lo: 8.5, Hi: 11.0},
		{Name: "z", Lo: 60.0, Hi: 120.0},
	}
}

// Load reads configuration from file, env, and defaults.
// Precedence: env (MASSPEC_*) > config file > defaults. With an empty
// cfgFile, ./config.yaml is tried; a missing file is not an error since
// every field has a default.
func Load(cfgFile string) (*Run, error) {
	v := viper.New()
	v.SetEnvPrefix("MASSPEC")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("out_dir", "out")
	v.SetDefault("bins", 300)
	v.SetDefault("mass_min", 0.0)
	v.SetDefault("mass_max", 120.0)
	v.SetDefault("residual_bins", 200)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Run
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ZoomWindows == nil {
		c.ZoomWindows = DefaultZoomWindows()
	}
	return &c, nil
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c *Run) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir must be set")
	}
	if c.Bins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", c.Bins)
	}
	if c.MassMax <= c.MassMin {
		return fmt.Errorf("mass range [%g, %g] is empty", c.MassMin, c.MassMax)
	}
	if c.ResidualBins <= 0 {
		return fmt.Errorf("residual_bins must be positive, got %d", c.ResidualBins)
	}
	for _, z := range c.ZoomWindows {
		if z.Name == "" {
			return fmt.Errorf("zoom window without a name")
		}
		if z.Hi <= z.Lo {
			return fmt.Errorf("zoom window %s range [%g, %g] is empty", z.Name, z.Lo, z.Hi)
		}
	}
	return nil
}

// Save writes the configuration to path as YAML, creating parent directories
// as needed.
func Save(c *Run, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
