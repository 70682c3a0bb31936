// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/cmd/structrs/commands"
	"github.com/walteh/structrs/cmd/structrs/opts"
	"github.com/walteh/structrs/pkg/config"
	"github.com/walteh/structrs/pkg/log"
	"github.com/walteh/structrs/pkg/source"
)

const defaultConfigFile = ".structrs.yaml"

// rootFlags holds every persistent flag
type rootFlags struct {
	configFile string
	debug      bool
	quiet      bool
	engine     string
	suffix     string
	jobs       int
}

// newRootCmd builds the command tree. Converted text goes to stdout,
// everything else to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "structrs <header>...",
		Short: "Convert C struct declarations into Rust struct definitions",
		Long: `structrs rewrites the struct declarations in C headers as #[repr(C)]
Rust structs. Each input is printed and written next to itself as
<input>_rust.

Inputs may be paths, doublestar globs (include/**/*.h) or GitHub files
(github.com/owner/repo/path/to/file.h@ref).`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)

			built, err := newRootOpts(ctx, cmd, flags, stdout, stderr)
			if err != nil {
				return err
			}
			*o = *built

			cmd.SetContext(log.NewContext(ctx, o.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunConvert(cmd.Context(), o, args)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewRulesCmd(o),
		commands.NewCheckCmd(o),
		newVersionCmd(stdout),
	)

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", defaultConfigFile, "config file path (yaml, hcl or json)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print converted text to stdout")
	cmd.PersistentFlags().StringVar(&flags.engine, "engine", "", "conversion engine: rules or structured (default from config, else rules)")
	cmd.PersistentFlags().StringVar(&flags.suffix, "suffix", "", "output file suffix (default from config, else _rust)")
	cmd.PersistentFlags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of inputs converted at once (default from config, else 1)")
}

// setupLogging configures zerolog based on flags and returns a context
// carrying the logger
func setupLogging(ctx context.Context, stderr io.Writer, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// newRootOpts loads configuration and builds the shared dependencies
func newRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, stdout, stderr io.Writer) (*opts.RootOpts, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.LoadOrDefault(ctx, flags.configFile, explicit)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("engine") {
		cfg.Engine = flags.engine
	}
	if cmd.Flags().Changed("suffix") {
		cfg.Suffix = flags.suffix
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}

	return &opts.RootOpts{
		Config: cfg,
		Logger: log.New(stderr, *zerolog.Ctx(ctx)),
		Source: source.NewMux(source.NewGitHub(ctx)),
		Stdout: stdout,
		Quiet:  flags.quiet,
	}, nil
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(stdout, FormatVersion(GetVersionInfo()))
			return err
		},
	}
}
