// internal/config/settings.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are the dashboard-level options read from
// ~/.config/sshdock/config.yaml. A missing file means defaults.
type Settings struct {
	// ScriptsPath is the remote root scanned for deployment scripts.
	ScriptsPath string `yaml:"scripts_path"`
	// LogTail is the initial docker logs line bound.
	LogTail int `yaml:"log_tail"`
	// RsyncCompress enables -z by default in rsync mode.
	RsyncCompress bool `yaml:"rsync_compress"`
	// DockerPsAll includes stopped containers in the container list.
	DockerPsAll bool `yaml:"docker_ps_all"`
}

func DefaultSettings() Settings {
	return Settings{
		ScriptsPath: "~/clients",
		LogTail:     100,
		DockerPsAll: true,
	}
}

// LoadSettings reads the settings file, falling back to defaults for a
// missing file and for any unset field.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}
	if settings.ScriptsPath == "" {
		settings.ScriptsPath = DefaultSettings().ScriptsPath
	}
	if settings.LogTail <= 0 {
		settings.LogTail = DefaultSettings().LogTail
	}
	return settings, nil
}

// DefaultSettingsPath returns ~/.config/sshdock/config.yaml.
func DefaultSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "sshdock", "config.yaml"), nil
}

// ExpandTilde rewrites a leading ~/ to the user's home directory for local
// paths. Remote paths are expanded by the remote shell instead.
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
