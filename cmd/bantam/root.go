package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danpasecinic/bantam/config"
	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/resource"
)

var version = "dev"

// app holds what every subcommand needs. fs is replaced in tests.
type app struct {
	v      *viper.Viper
	fs     afero.Fs
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFS(afero.NewOsFs())
}

func newRootCmdWithFS(fsys afero.Fs) *cobra.Command {
	a := &app{v: viper.New(), fs: fsys}

	root := &cobra.Command{
		Use:           "bantam",
		Short:         "Inspect dependency registration files",
		Long:          `Check, list and locate the JSON or YAML registration files read by bantam containers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringSliceP("search-path", "s", nil,
		"directories searched for relative file names, in order (default: current directory)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().String("env-file", ".env", "file of KEY=value pairs loaded into the environment")

	_ = a.v.BindPFlag("search_path", root.PersistentFlags().Lookup("search-path"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newLintCmd(a), newListCmd(a), newLocateCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := a.loadEnv(cmd); err != nil {
		return err
	}

	a.v.SetEnvPrefix("BANTAM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log_level"))); err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// loadEnv reads the env file into the environment without replacing
// variables that are already set. Only the default file may be missing.
func (a *app) loadEnv(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("env-file")

	f, err := a.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("env file %s: %w", name, err)
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) locator() *resource.Locator {
	return resource.NewLocator(
		resource.WithFS(a.fs),
		resource.WithRoots(a.searchPaths()...),
	)
}

// searchPaths accepts the flag or BANTAM_SEARCH_PATH, which may hold a
// list separated by commas.
func (a *app) searchPaths() []string {
	var paths []string
	for _, p := range a.v.GetStringSlice("search_path") {
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				paths = append(paths, part)
			}
		}
	}
	return paths
}

// load locates and parses one registration file.
func (a *app) load(name string) (string, []config.Registration, error) {
	data, path, err := a.locator().Read(name)
	if err != nil {
		return "", nil, errs.ConfigNotFound(name, err)
	}
	a.logger.Debug("configuration located", "name", name, "path", path)

	regs, err := config.Parse(data)
	if err != nil {
		return path, nil, err
	}
	return path, regs, nil
}
