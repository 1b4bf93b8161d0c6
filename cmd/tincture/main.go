package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture"
	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/csharp"
)

var (
	flagConfig   string
	flagDB       string
	flagFormat   string
	flagLogLevel string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tincture",
	Short:         "Semantic classification for C# source",
	Long:          "Tincture classifies C# source into role-aware style tags and manages the symbols pinned to marker styles.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		level, err := zerolog.ParseLevel(flagLogLevel)
		if err != nil {
			return errors.Errorf("invalid log level %q: %w", flagLogLevel, err)
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
			Level(level).
			With().Timestamp().Logger()
		cmd.SetContext(log.WithContext(cmd.Context()))
		return nil
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultFile, "configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "marker database path (default: markers.database from the configuration)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(markersCmd)
}

// loadConfig reads --config, falling back to the defaults when the file
// does not exist.
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(afero.NewOsFs(), flagConfig)
}

// newEngine creates an Engine for one command. With withDB the marker
// database from --db (or the configuration) is opened and its pins loaded.
func newEngine(ctx context.Context, withDB bool) (*tincture.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := []tincture.Option{tincture.WithConfigSource(config.NewSource(cfg))}
	if path := resolveDBPath(cfg); withDB || fileExists(path) {
		opts = append(opts, tincture.WithDatabase(path))
	}
	e, err := tincture.New(opts...)
	if err != nil {
		return nil, errors.Errorf("creating engine: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int("markers", e.Markers().Len()).Msg("engine ready")
	return e, nil
}

// resolveDBPath returns the database path from the --db flag or the
// configuration. Relative configuration paths are taken relative to the
// configuration file.
func resolveDBPath(cfg *config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	path := cfg.Markers.Database
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(flagConfig), path)
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// expandPaths resolves file arguments and doublestar globs to a sorted,
// de-duplicated list of files. Globs keep only C# sources; explicit files
// are taken as given. A pattern that matches nothing is an error.
func expandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("bad pattern %q: %w", arg, err)
		}
		n := 0
		for _, m := range matches {
			if csharp.IsSourceFile(m) {
				add(m)
				n++
			}
		}
		if n == 0 {
			return nil, errors.Errorf("no files match %q", arg)
		}
	}
	sort.Strings(out)
	return out, nil
}
