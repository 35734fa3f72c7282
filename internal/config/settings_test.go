// internal/config/settings_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "scripts_path: /srv/deploy\nlog_tail: 500\nrsync_compress: true\ndocker_ps_all: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/deploy", settings.ScriptsPath)
	assert.Equal(t, 500, settings.LogTail)
	assert.True(t, settings.RsyncCompress)
	assert.False(t, settings.DockerPsAll)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_tail: 50\n"), 0600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 50, settings.LogTail)
	assert.Equal(t, DefaultSettings().ScriptsPath, settings.ScriptsPath)
}

func TestLoadSettingsMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_tail: [not a number\n"), 0600))

	settings, err := LoadSettings(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}
