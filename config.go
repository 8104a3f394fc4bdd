package zoomgraph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TransparencyResolution is the smallest transparency change SetTransparency
// acts on. Changes no larger than this are dropped, except changes to fully
// transparent or fully opaque.
var TransparencyResolution = 0.01

// Config holds the engine tunables that are usually read from a YAML file.
type Config struct {
	// TransparencyResolution sets the package-wide TransparencyResolution.
	TransparencyResolution float64 `yaml:"transparency_resolution"`

	// DefaultStepRateMS sets DefaultStepRate, in milliseconds.
	DefaultStepRateMS int64 `yaml:"default_step_rate_ms"`

	// PickHalo is the pick halo of the root's default input manager.
	PickHalo float64 `yaml:"pick_halo"`

	// ViewConstraint is applied to every camera directly below the root:
	// "none", "center" or "contain_all".
	ViewConstraint string `yaml:"view_constraint"`

	// Debug enables debug mode.
	Debug bool `yaml:"debug"`

	// MaxTreeDepth and MaxChildCount are the debug mode warning thresholds.
	MaxTreeDepth  int `yaml:"max_tree_depth"`
	MaxChildCount int `yaml:"max_child_count"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		TransparencyResolution: 0.01,
		DefaultStepRateMS:      20,
		PickHalo:               1,
		ViewConstraint:         ViewConstraintNone.String(),
		MaxTreeDepth:           32,
		MaxChildCount:          1000,
	}
}

// LoadConfig parses YAML into a Config. Fields not present keep their
// DefaultConfig value; unknown fields are rejected.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("zoomgraph: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("zoomgraph: read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if c.TransparencyResolution < 0 || c.TransparencyResolution >= 1 {
		return fmt.Errorf("zoomgraph: transparency_resolution %v out of range [0, 1)", c.TransparencyResolution)
	}
	if c.DefaultStepRateMS < 0 {
		return fmt.Errorf("zoomgraph: default_step_rate_ms %d is negative", c.DefaultStepRateMS)
	}
	if c.PickHalo < 0 {
		return fmt.Errorf("zoomgraph: pick_halo %v is negative", c.PickHalo)
	}
	if _, err := ParseViewConstraint(c.ViewConstraint); err != nil {
		return err
	}
	if c.MaxTreeDepth <= 0 || c.MaxChildCount <= 0 {
		return errors.New("zoomgraph: max_tree_depth and max_child_count must be positive")
	}
	return nil
}

// ApplyConfig installs cfg: package-wide tunables, debug mode, the default
// input manager's pick halo and the view constraint of the root's cameras.
func (r *Root) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	vc, _ := ParseViewConstraint(cfg.ViewConstraint)

	TransparencyResolution = cfg.TransparencyResolution
	DefaultStepRate = cfg.DefaultStepRateMS
	debugMaxTreeDepth = cfg.MaxTreeDepth
	debugMaxChildCount = cfg.MaxChildCount
	SetDebugMode(cfg.Debug)
	r.DefaultInputManager().PickHalo = cfg.PickHalo

	for _, child := range r.children {
		if c, ok := child.AsCamera(); ok {
			if err := c.SetViewConstraint(vc); err != nil {
				return err
			}
		}
	}
	return nil
}
