package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/blobsim/internal/field"
	"github.com/san-kum/blobsim/internal/integrators"
	"github.com/san-kum/blobsim/internal/settings"
	"github.com/san-kum/blobsim/internal/surface"
)

var (
	ErrMaxBodies = errors.New("engine: max bodies must be positive")
	ErrFPS       = errors.New("engine: fps must be positive")
)

type Config struct {
	MaxBodies        int
	Seed             int64
	FPS              int
	Integrator       string
	Surface          surface.Config
	PresetTransition time.Duration
	SliderTween      time.Duration
	Palette          []string
	Presets          []settings.Preset // built-in presets when empty
	StartPreset      int
}

func DefaultConfig() Config {
	return Config{
		MaxBodies:        settings.DefaultMaxBodies,
		Seed:             1,
		FPS:              60,
		Integrator:       "semi-implicit",
		Surface:          surface.DefaultConfig(),
		PresetTransition: settings.DefaultPresetTransition,
		SliderTween:      settings.DefaultSliderTween,
		Palette:          field.DefaultPalette,
	}
}

func (c Config) Validate() error {
	if c.MaxBodies <= 0 {
		return ErrMaxBodies
	}
	if c.FPS <= 0 {
		return ErrFPS
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if err := c.Surface.Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	return nil
}

// Timestep is the fixed simulation step.
func (c Config) Timestep() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
