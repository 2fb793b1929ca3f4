package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xltrail/git-xl/internal/config"
	"github.com/xltrail/git-xl/internal/driver"
	"github.com/xltrail/git-xl/internal/gitconfig"
	"github.com/xltrail/git-xl/internal/storage"
)

func newDiffCommand(global *globalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [context] path old-file old-hex old-mode new-file new-hex new-mode",
		Short: "Diff driver, run by Git as diff.xl.command",
		Args:  cobra.RangeArgs(7, 8),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := driver.ParseDiffArgs(args)
			if err != nil {
				return err
			}
			d, err := loadDrivers(global)
			if err != nil {
				return err
			}
			differ := &driver.Differ{
				Extractor:    d.extractor,
				Matcher:      driver.Matcher(d.config),
				ContextLines: d.config.ContextLines,
				Colors:       driver.NewColorizer(cmd.OutOrStdout(), d.config.Color),
				Stdout:       cmd.OutOrStdout(),
				Stderr:       cmd.ErrOrStderr(),
			}
			return differ.Diff(cmd.Context(), parsed)
		},
	}
}

func newMergeCommand(global *globalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge path base ours theirs",
		Short: "Merge driver, run by Git as merge.xl.driver with %P %O %A %B",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDrivers(global)
			if err != nil {
				return err
			}
			merger := &driver.Merger{
				Extractor: d.extractor,
				Writer:    d.writer,
				Matcher:   driver.Matcher(d.config),
				Jobs:      d.config.Jobs,
				Stdout:    cmd.OutOrStdout(),
				Stderr:    cmd.ErrOrStderr(),
			}
			return merger.Merge(cmd.Context(), args[0], args[1], args[2], args[3])
		},
	}
}

func newInstallCommand(name, short string) *cobra.Command {
	var local, global bool
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := gitconfig.Global
			if local {
				mode = gitconfig.Local
			}
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return err
			}
			installer, err := gitconfig.NewInstaller(cmd.Context(), mode, wd, exe, gitconfig.Git)
			if err != nil {
				return err
			}
			if name == "uninstall" {
				err = installer.Uninstall(cmd.Context())
			} else {
				err = installer.Install(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "git-xl: %sed (%s)\n", name, mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "edit the configuration of the current repository")
	cmd.Flags().BoolVar(&global, "global", false, "edit the global configuration (default)")
	cmd.MarkFlagsMutuallyExclusive("local", "global")
	return cmd
}

func newLsFilesCommand(global *globalContext) *cobra.Command {
	var opts driver.ListOptions
	cmd := &cobra.Command{
		Use:   "ls-files [directory]",
		Short: "List workbooks and their VBA modules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			d, err := loadDrivers(global)
			if err != nil {
				return err
			}
			l := &driver.Lister{
				Extractor: d.extractor,
				Colors:    driver.NewColorizer(cmd.OutOrStdout(), d.config.Color),
				Stdout:    cmd.OutOrStdout(),
				Stderr:    cmd.ErrOrStderr(),
			}
			return l.LsFiles(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "x", driver.DefaultWorkbookPattern, "list files whose names match `glob`")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "show module code; twice, also digests")
	return cmd
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show version and repository information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			var top, ignore, attributes string
			if out, err := gitconfig.Git(cmd.Context(), wd, "rev-parse", "--show-toplevel"); err == nil {
				top = strings.TrimSpace(out)
				installer, err := gitconfig.NewInstaller(cmd.Context(), gitconfig.Local, top, "git-xl", gitconfig.Git)
				if err != nil {
					return err
				}
				ignore, attributes = installer.IgnorePath(), installer.AttributesPath()
			} else {
				log.WithField("cause", err).Debug("Not in a repository")
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "git-xl/%s\n", version)
			fmt.Fprintf(w, "LocalWorkingDir=%s\n", top)
			fmt.Fprintf(w, "LocalGitIgnore=%s\n", ignore)
			fmt.Fprintf(w, "LocalGitAttributes=%s\n", attributes)
			return nil
		},
	}
}

func newClearCacheCommand(global *globalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete the VBA modules cached from extracted workbooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			store, err := storage.NewStore(cfg)
			if err != nil {
				return fmt.Errorf("could not create cache store: %w", err)
			}
			n, err := storage.Clear(store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "git-xl: removed %d cached workbooks\n", n)
			return nil
		},
	}
}

func newInitCommand(global *globalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration into the base directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Initialize(global.base); err != nil {
				return fmt.Errorf("could not initialize config in %q: %w", global.base, err)
			}
			return nil
		},
	}
}
