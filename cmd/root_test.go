package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/pastille/internal/config"
)

func TestDebugEnabledViaEnv(t *testing.T) {
	t.Setenv("PASTILLE_DEBUG", "1")

	assert.True(t, debugEnabled())
}

func TestDebugDisabledByDefault(t *testing.T) {
	t.Setenv("PASTILLE_DEBUG", "")

	assert.False(t, debugEnabled())
}

func TestDebugEnabledViaFlag(t *testing.T) {
	t.Setenv("PASTILLE_DEBUG", "")
	debugFlag = true
	t.Cleanup(func() { debugFlag = false })

	assert.True(t, debugEnabled())
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { SetVersion(original) })

	SetVersion("1.2.3 (commit: abc, built: today)")

	assert.Equal(t, "1.2.3 (commit: abc, built: today)", rootCmd.Version)
}

// The generated default config must parse back with the documented defaults.
func TestDefaultConfigTemplateParses(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "@", cfg.Editor.Trigger)
	assert.True(t, cfg.Editor.SmartQuotes)
	assert.Equal(t, "default", cfg.Theme.Preset)
	assert.Len(t, cfg.Directory.People, 2)
	assert.Equal(t, 300, cfg.Directory.CacheTTLSeconds)
}
