package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/squadcast-analyze/internal/config"
	"github.com/roach88/squadcast-analyze/internal/runid"
)

// RootOptions holds global flags for all commands, plus the clock, run ID
// source and environment the commands run against.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	EnvPath    string

	Now       func() time.Time
	RunIDs    runid.Generator
	LookupEnv func(string) (string, bool)

	runID  string
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the squadcast-analyze CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		Now:       time.Now,
		RunIDs:    runid.UUIDv7{},
		LookupEnv: os.LookupEnv,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squadcast-analyze",
		Short: "Squadcast Analyze - fetch & analyze incidents",
		Long: `Export Squadcast incidents for a time window and break them down
into Top-N counts by any field, nested fields included.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.setup(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML settings file")
	cmd.PersistentFlags().StringVar(&opts.EnvPath, "env", config.DefaultEnvFile, "path to .env")

	cmd.AddCommand(NewAuthCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// setup fills unset dependencies and builds the run logger. Commands call
// it too, so they work when constructed without the root command.
func (o *RootOptions) setup(logOut io.Writer) {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RunIDs == nil {
		o.RunIDs = runid.UUIDv7{}
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.runID == "" {
		o.runID = o.RunIDs.Generate()
	}
	if o.logger == nil {
		level := slog.LevelWarn
		if o.Verbose {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})
		o.logger = slog.New(handler).With("run_id", o.runID)
	}
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	o.setup(cmd.ErrOrStderr())
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		RunID:     o.runID,
	}
}

// loadSettings resolves settings from the --config and --env sources.
func (o *RootOptions) loadSettings() (config.Settings, error) {
	return config.Load(config.LoadOptions{
		ConfigPath: o.ConfigPath,
		EnvPath:    o.EnvPath,
		LookupEnv:  o.LookupEnv,
	})
}
