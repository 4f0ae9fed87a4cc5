package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/field"
	"github.com/san-kum/blobsim/internal/settings"
	"github.com/san-kum/blobsim/internal/surface"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSeed    = 1
	DefaultFPS     = 60
	DefaultRunsDir = ".blobsim"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	MaxBodies        int           `yaml:"max_bodies"`
	Seed             int64         `yaml:"seed"`
	FPS              int           `yaml:"fps"`
	Integrator       string        `yaml:"integrator"`
	Resolution       int           `yaml:"resolution"`
	Isolation        float64       `yaml:"isolation"`
	MaxTriangles     int           `yaml:"max_triangles"`
	Scale            float64       `yaml:"scale"`
	PresetTransition time.Duration `yaml:"preset_transition"`
	SliderTween      time.Duration `yaml:"slider_tween"`
	Palette          []string      `yaml:"palette"`
	PresetsFile      string        `yaml:"presets_file,omitempty"`
	StartPreset      string        `yaml:"start_preset,omitempty"`
	RunsDir          string        `yaml:"runs_dir"`
}

func DefaultConfig() *Config {
	sc := surface.DefaultConfig()
	return &Config{
		MaxBodies:        settings.DefaultMaxBodies,
		Seed:             DefaultSeed,
		FPS:              DefaultFPS,
		Integrator:       "semi-implicit",
		Resolution:       sc.Resolution,
		Isolation:        sc.Isolation,
		MaxTriangles:     sc.MaxTriangles,
		Scale:            sc.Scale,
		PresetTransition: settings.DefaultPresetTransition,
		SliderTween:      settings.DefaultSliderTween,
		Palette:          append([]string(nil), field.DefaultPalette...),
		RunsDir:          DefaultRunsDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Presets returns the presets from PresetsFile, or the built-in set.
func (c *Config) Presets() ([]settings.Preset, error) {
	if c.PresetsFile == "" {
		return settings.Builtin(), nil
	}
	return LoadPresets(c.PresetsFile)
}

// Engine resolves the presets and the start preset into an engine
// configuration.
func (c *Config) Engine() (engine.Config, error) {
	presets, err := c.Presets()
	if err != nil {
		return engine.Config{}, err
	}
	start := 0
	if c.StartPreset != "" {
		i, ok := FindPreset(presets, c.StartPreset)
		if !ok {
			return engine.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, c.StartPreset)
		}
		start = i
	}

	return engine.Config{
		MaxBodies:  c.MaxBodies,
		Seed:       c.Seed,
		FPS:        c.FPS,
		Integrator: c.Integrator,
		Surface: surface.Config{
			Resolution:   c.Resolution,
			Isolation:    c.Isolation,
			MaxTriangles: c.MaxTriangles,
			Scale:        c.Scale,
		},
		PresetTransition: c.PresetTransition,
		SliderTween:      c.SliderTween,
		Palette:          c.Palette,
		Presets:          presets,
		StartPreset:      start,
	}, nil
}
