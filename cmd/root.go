package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/calliope/internal/audnex"
	"github.com/lepinkainen/calliope/internal/canonical"
	"github.com/lepinkainen/calliope/internal/config"
	"github.com/lepinkainen/calliope/internal/exporter"
	"github.com/lepinkainen/calliope/internal/fileutil"
	"github.com/lepinkainen/calliope/internal/mediainfo"
	"github.com/lepinkainen/calliope/internal/metadata"
	"github.com/lepinkainen/calliope/internal/providers"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the calliope application
type CLI struct {
	// Global flags
	Overwrite bool   `help:"Overwrite existing sidecar files when exporting"`
	Covers    bool   `help:"Download cover images after lookups"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	Region    string `help:"Pin Audnex lookups to a single region instead of the fallback list"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Lookup    LookupCmd    `cmd:"" help:"Look up audiobook metadata by ASIN and merge all provider results"`
	Inspect   InspectCmd   `cmd:"" help:"Inspect an audio file's technical metadata with mediainfo"`
	Providers ProvidersCmd `cmd:"" help:"List the registered metadata providers"`
}

// LookupCmd represents the lookup command
type LookupCmd struct {
	ASIN      string   `arg:"" help:"Audible ASIN to look up"`
	Path      string   `short:"p" help:"Path to the audiobook file (enables local providers and export)"`
	Providers []string `help:"Restrict the lookup to these providers"`
	Required  []string `help:"Fields that must be covered before network providers are skipped"`
	All       bool     `help:"Query every provider even after required fields are covered"`
	NoNetwork bool     `help:"Skip network providers and use only local sources"`
	Strategy  string   `help:"Conflict resolution strategy" enum:"confidence,priority" default:"confidence"`
	JSONOut   string   `help:"Write the merged result JSON to this file instead of stdout"`
	Export    bool     `help:"Write the merged metadata as a JSON sidecar next to the audio file"`
}

// InspectCmd represents the inspect command
type InspectCmd struct {
	Path string `arg:"" help:"Audio file to inspect"`
	Full bool   `help:"Print the full mediainfo report instead of the summary"`
}

// ProvidersCmd represents the providers command
type ProvidersCmd struct{}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("calliope"),
		kong.Description("A tool to aggregate audiobook metadata from multiple sources into one canonical record."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("audnex.baseurl", "AUDNEX_BASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.Verbose {
		setLogLevel(slog.LevelDebug)
	}

	config.SetOverwriteFiles(cli.Overwrite)
	config.SetDownloadCovers(cli.Covers)

	if cli.Region != "" {
		config.AudnexRegions = []string{cli.Region}
	}

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// buildRegistry assembles the standard provider set from global config.
func buildRegistry() *metadata.Registry {
	client := audnex.NewClient(
		audnex.WithBaseURL(config.AudnexBaseURL),
		audnex.WithRegions(config.AudnexRegions),
	)
	inspector := mediainfo.NewInspector(config.MediainfoBinary)
	return providers.NewDefaultRegistry(client, inspector, "")
}

// Run methods for each command

func (l *LookupCmd) Run() error {
	if l.Export && l.Path == "" {
		return fmt.Errorf("--export requires --path: the sidecar is written next to the audio file")
	}

	registry := buildRegistry()
	aggregator := metadata.NewAggregator(registry, metadata.Strategy(l.Strategy))

	lookup := metadata.NewLookup(metadata.IDTypeASIN, l.ASIN)
	if l.Path != "" {
		lookup = lookup.WithPath(l.Path)
	}

	result := aggregator.FetchAll(context.Background(), lookup, metadata.FetchOptions{
		Providers:        l.Providers,
		RequiredFields:   metadata.ParseFields(l.Required),
		DisableEarlyStop: l.All,
		LocalOnly:        l.NoNetwork,
	})

	for provider, errMsg := range result.Errors {
		slog.Warn("Provider failed", "provider", provider, "error", errMsg)
	}
	for _, conflict := range result.Conflicts {
		slog.Info("Resolved field conflict",
			"field", conflict.Field,
			"winner", result.Sources[conflict.Field],
			"resolved", conflict.Resolved,
			"reason", conflict.Reason,
			"values", conflict.Values)
	}

	if l.JSONOut != "" {
		if _, err := fileutil.WriteJSONFile(result, l.JSONOut, true); err != nil {
			return err
		}
		slog.Info("Wrote lookup result", "path", l.JSONOut)
	} else if err := printJSON(result); err != nil {
		return err
	}

	if l.Export {
		book := canonical.FromFields(l.ASIN, result.Fields)
		exported, err := exporter.New(exporter.Options{
			Overwrite:     config.OverwriteFiles,
			DownloadCover: config.DownloadCovers,
		}).Export(context.Background(), book, l.Path)
		if err != nil {
			return err
		}
		if exported.SidecarWritten {
			slog.Info("Wrote metadata sidecar", "path", exported.SidecarPath)
		} else {
			slog.Info("Sidecar already exists, skipping (use --overwrite to replace)", "path", exported.SidecarPath)
		}
	}

	return nil
}

func (i *InspectCmd) Run() error {
	inspector := mediainfo.NewInspector(config.MediainfoBinary)

	report, err := inspector.Inspect(context.Background(), i.Path)
	if err != nil {
		return err
	}

	if i.Full {
		return printJSON(report)
	}
	return printJSON(report.Summary())
}

func (p *ProvidersCmd) Run() error {
	registry := buildRegistry()

	fmt.Printf("%-12s %-8s %-8s %s\n", "NAME", "PRIORITY", "KIND", "OVERRIDE")
	for _, provider := range registry.All() {
		fmt.Printf("%-12s %-8d %-8s %v\n",
			provider.Name(), provider.Priority(), provider.Kind(), provider.Override())
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func initLogging() {
	setLogLevel(slog.LevelInfo)
}

func setLogLevel(level slog.Level) {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
