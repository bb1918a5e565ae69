package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "https://api.audnex.us", AudnexBaseURL)
	assert.Equal(t, []string{"us", "uk", "ca", "au", "de", "fr"}, AudnexRegions)
	assert.Equal(t, "mediainfo", MediainfoBinary)
	assert.False(t, OverwriteFiles)
	assert.False(t, DownloadCovers)
}

func TestInitConfigReadsViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("audnex.baseurl", "http://localhost:9999")
	viper.Set("audnex.regions", []string{"de"})
	viper.Set("mediainfo.binary", "/opt/mediainfo/bin/mediainfo")
	viper.Set("OverwriteFiles", true)

	InitConfig()

	assert.Equal(t, "http://localhost:9999", AudnexBaseURL)
	assert.Equal(t, []string{"de"}, AudnexRegions)
	assert.Equal(t, "/opt/mediainfo/bin/mediainfo", MediainfoBinary)
	assert.True(t, OverwriteFiles)
}

func TestSetters(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	InitConfig()

	SetOverwriteFiles(true)
	assert.True(t, OverwriteFiles)

	SetDownloadCovers(true)
	assert.True(t, DownloadCovers)
}
