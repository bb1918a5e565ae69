package testutil

import (
	"testing"

	"github.com/lepinkainen/calliope/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles   bool
	DownloadCovers   bool
	MediainfoBinary  string
	AudnexBaseURL    string
	AudnexRegions    []string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OverwriteFiles:  config.OverwriteFiles,
		DownloadCovers:  config.DownloadCovers,
		MediainfoBinary: config.MediainfoBinary,
		AudnexBaseURL:   config.AudnexBaseURL,
		AudnexRegions:   config.AudnexRegions,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
	config.DownloadCovers = state.DownloadCovers
	config.MediainfoBinary = state.MediainfoBinary
	config.AudnexBaseURL = state.AudnexBaseURL
	config.AudnexRegions = state.AudnexRegions
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	config.OverwriteFiles = true
	config.DownloadCovers = false
	config.MediainfoBinary = "mediainfo"
	config.AudnexBaseURL = "https://api.audnex.us"
	config.AudnexRegions = []string{"us"}

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so a previously unset key stays set.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and returns its path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")

	return cacheDir
}
