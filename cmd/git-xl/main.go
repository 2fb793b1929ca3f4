// Command git-xl is a Git extension for Excel workbooks. Installed as
// diff and merge driver, it diffs and merges the VBA modules workbooks
// contain.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xltrail/git-xl/internal/config"
	"github.com/xltrail/git-xl/internal/driver"
	"github.com/xltrail/git-xl/internal/storage"
	"github.com/xltrail/git-xl/internal/vba"
)

// To set this at build time, use go build -ldflags '-X main.version=something'.
var version = "unknown"

// Flags shared by all sub-commands.
type globalContext struct {
	base     string
	logLevel string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status. Git
// takes status 1 from a merge driver as a conflict.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, driver.ErrConflict):
		log.WithField("cause", err).Info("Merge needs resolution")
		return 1
	default:
		fmt.Fprintf(stderr, "git-xl: %v\n", err)
		return 2
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var global globalContext
	var levels []string
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	root := &cobra.Command{
		Use:           "git-xl",
		Short:         "Diff and merge the VBA code of Excel workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log.SetOutput(stderr)
			log.SetFormatter(&log.JSONFormatter{})
			ll, err := log.ParseLevel(global.logLevel)
			if err != nil {
				return fmt.Errorf("could not parse log level %q: %w", global.logLevel, err)
			}
			log.SetLevel(ll)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	flags := root.PersistentFlags()
	flags.StringVar(&global.base, "base", config.DefaultBaseDirectoryPath, "`directory` for configuration and caches")
	flags.StringVar(&global.logLevel, "verbosity", "warning", "sets the log `level`, among "+strings.Join(levels, ", "))

	root.AddCommand(
		newDiffCommand(&global),
		newMergeCommand(&global),
		newInstallCommand("install", "Register git-xl as diff and merge driver for workbooks"),
		newInstallCommand("uninstall", "Undo install"),
		newLsFilesCommand(&global),
		newEnvCommand(),
		newInitCommand(&global),
		newClearCacheCommand(&global),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

// drivers holds what the driver commands are built from.
type drivers struct {
	config    *config.C
	extractor vba.Extractor
	writer    vba.Writer
}

func loadConfig(global *globalContext) (*config.C, error) {
	cfg, err := config.Load(global.base)
	if err != nil {
		return nil, fmt.Errorf("could not load config from %q: %w", global.base, err)
	}
	log.WithFields(log.Fields{
		"base":  cfg.Base(),
		"cache": cfg.CacheDirectoryPath(),
	}).Debug("Loaded configuration")
	return cfg, nil
}

func loadDrivers(global *globalContext) (*drivers, error) {
	cfg, err := loadConfig(global)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create cache store: %w", err)
	}
	writer, err := vba.NewWriter(cfg.WriteCommand)
	if errors.Is(err, vba.ErrNoWriter) {
		writer, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &drivers{
		config: cfg,
		extractor: &vba.CachingExtractor{
			Next:  &vba.CommandExtractor{Command: cfg.ExtractCommand},
			Store: store,
		},
		writer: writer,
	}, nil
}
