package rigview

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the viewer preferences a host persists between sessions.
// The viewport only reads them at construction; hosts observe changes
// through callbacks and save them themselves.
type Settings struct {
	// Lock pins zoom at 1 and pan at the origin and disables gestures
	// that would change them.
	Lock bool `yaml:"lock"`
	// Autoplay cycles through all clips on completion.
	Autoplay bool `yaml:"autoplay"`
}

// DefaultSettings returns the settings used when none are stored: locked,
// no autoplay.
func DefaultSettings() Settings {
	return Settings{Lock: true}
}

// LoadSettings reads settings from a YAML file. A missing file yields
// DefaultSettings without error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("rigview: read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("rigview: parse settings: %w", err)
	}
	return s, nil
}

// SaveSettings writes settings to a YAML file.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("rigview: marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rigview: write settings: %w", err)
	}
	return nil
}
