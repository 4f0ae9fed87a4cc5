package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/blobsim/internal/settings"
	"gopkg.in/yaml.v3"
)

var ErrNoPresets = errors.New("config: presets file is empty")

// LoadPresets reads a YAML list of presets. Controls a preset leaves out
// take the values shared by the built-in presets.
func LoadPresets(path string) ([]settings.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoPresets
	}

	presets := make([]settings.Preset, 0, len(nodes))
	for i := range nodes {
		p := settings.Builtin()[0]
		p.Name = fmt.Sprintf("Preset %d", i+1)
		if err := nodes[i].Decode(&p); err != nil {
			return nil, fmt.Errorf("preset %d: %w", i+1, err)
		}
		presets = append(presets, p)
	}
	return presets, nil
}

func SavePresets(path string, presets []settings.Preset) error {
	data, err := yaml.Marshal(presets)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindPreset looks a preset up by name, ignoring case.
func FindPreset(presets []settings.Preset, name string) (int, bool) {
	for i, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return -1, false
}

func ListPresets(presets []settings.Preset) []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
