package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"maplint/internal/analysis"
	"maplint/internal/config"
	"maplint/internal/frontend/csharp"
	"maplint/internal/logging"
	"maplint/internal/unitfile"
	"maplint/internal/version"
)

var (
	// rootRepoRoot is the CLI --repo-root flag value
	rootRepoRoot string
	rootLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "maplint",
	Short: "maplint - static analysis for object mapping profiles",
	Long: `maplint statically inspects declared object-to-object mapping
configurations and flags defects before they become runtime exceptions or
silently wrong data: type mismatches, nullability loss, collection element
mismatches, missing nested mappings, case-only name mismatches, unmapped
required members, redundant explicit mappings, and performance hazards in
mapping expressions.`,
	Version: version.Info(),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("maplint version %s\n", version.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetVersionTemplate("maplint version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootRepoRoot, "repo-root", ".",
		"Repository root (config and baseline live under it)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
}

// loadConfig loads tool config for the resolved repo root.
func loadConfig() (*config.Config, error) {
	return config.Load(rootRepoRoot)
}

// newLogger builds the process logger from config plus CLI overrides.
func newLogger(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if rootLogLevel != "" {
		level = rootLogLevel
	}
	return logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(level),
	})
}

// newLoader picks a frontend per input path: YAML unit snapshots go to
// the unitfile loader, everything else to the C# frontend.
func newLoader(paths []string, logger *logging.Logger) ([]analysis.Loader, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var loaders []analysis.Loader
	var yamlPaths []string
	for _, path := range paths {
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			yamlPaths = append(yamlPaths, path)
			continue
		}
		frontend, err := csharp.New(path, logger)
		if err != nil {
			return nil, fmt.Errorf("frontend for %s: %w", path, err)
		}
		loaders = append(loaders, frontend)
	}
	if len(yamlPaths) > 0 {
		loaders = append(loaders, unitfile.NewLoader(yamlPaths...))
	}
	return loaders, nil
}
