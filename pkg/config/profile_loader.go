package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScreenProfile carries per-deployment defaults for one screen: theming and
// presentation knobs that belong to the deployment, not to the screen code.
type ScreenProfile struct {
	Name     string         `yaml:"name" json:"name"`
	Screen   string         `yaml:"screen" json:"screen"`
	Theme    ThemeConfig    `yaml:"theme" json:"theme"`
	Defaults map[string]any `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// ThemeConfig holds presentation defaults. TableStriped is a pointer so an
// omitted key is distinguishable from an explicit false.
type ThemeConfig struct {
	MaxWidth     string `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	Padding      int    `yaml:"padding,omitempty" json:"padding,omitempty"`
	CardShadow   int    `yaml:"card_shadow,omitempty" json:"card_shadow,omitempty"`
	TableStriped *bool  `yaml:"table_striped,omitempty" json:"table_striped,omitempty"`
}

// LoadProfile loads a screen profile YAML by screen slug.
// It searches the profiles directory for profile_<slug>.yaml.
func LoadProfile(profilesDir, screen string) (*ScreenProfile, error) {
	screen = strings.ToLower(screen)
	path := filepath.Join(profilesDir, fmt.Sprintf("profile_%s.yaml", screen))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", screen, err)
	}

	var profile ScreenProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", screen, err)
	}

	if profile.Screen == "" {
		profile.Screen = screen
	}

	return &profile, nil
}

// LoadAllProfiles loads all profile_*.yaml files from the profiles directory.
func LoadAllProfiles(profilesDir string) (map[string]*ScreenProfile, error) {
	matches, err := filepath.Glob(filepath.Join(profilesDir, "profile_*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*ScreenProfile, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var profile ScreenProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		if profile.Screen == "" {
			// Extract slug from filename: profile_counter-demo.yaml.
			base := filepath.Base(path)
			profile.Screen = strings.TrimSuffix(strings.TrimPrefix(base, "profile_"), ".yaml")
		}

		profiles[profile.Screen] = &profile
	}

	return profiles, nil
}
