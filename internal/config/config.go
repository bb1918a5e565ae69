package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing sidecar files are overwritten
	OverwriteFiles bool
	// DownloadCovers controls whether cover images are fetched after a lookup
	DownloadCovers bool
	// MediainfoBinary is the mediainfo executable used for local inspection
	MediainfoBinary string
	// AudnexBaseURL is the Audnex API endpoint
	AudnexBaseURL string
	// AudnexRegions is the region fallback order for Audnex lookups
	AudnexRegions []string
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("audnex.baseurl", "https://api.audnex.us")
	viper.SetDefault("audnex.regions", []string{"us", "uk", "ca", "au", "de", "fr"})
	viper.SetDefault("mediainfo.binary", "mediainfo")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("DownloadCovers", false)

	OverwriteFiles = viper.GetBool("OverwriteFiles")
	DownloadCovers = viper.GetBool("DownloadCovers")
	MediainfoBinary = viper.GetString("mediainfo.binary")
	AudnexBaseURL = viper.GetString("audnex.baseurl")
	AudnexRegions = viper.GetStringSlice("audnex.regions")
}

// SetOverwriteFiles sets the OverwriteFiles flag.
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetDownloadCovers sets the DownloadCovers flag.
func SetDownloadCovers(download bool) {
	DownloadCovers = download
}
