package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
	"github.com/MeKo-Tech/qrnode/internal/config"
	"github.com/MeKo-Tech/qrnode/internal/node"
	"github.com/MeKo-Tech/qrnode/internal/validation"
	"github.com/MeKo-Tech/qrnode/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Process exit codes.
const (
	ExitOK                = 0
	ExitError             = 1
	ExitValidationFailure = 2
	ExitMissingDependency = 3
)

// flagBinding maps a cobra flag to a configuration key.
type flagBinding struct {
	key  string
	flag string
}

// app carries the per-invocation configuration state of one command tree.
type app struct {
	v        *viper.Viper
	loader   *config.Loader
	cfgFile  string
	cfg      *config.Config
	registry *node.Registry
	bindings map[*cobra.Command][]flagBinding
}

// bind registers flag bindings that are applied only when cmd runs, so that
// several subcommands can share a configuration key.
func (a *app) bind(cmd *cobra.Command, pairs ...flagBinding) {
	a.bindings[cmd] = append(a.bindings[cmd], pairs...)
}

// NewRootCommand builds a fresh command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), bindings: map[*cobra.Command][]flagBinding{}}

	root := &cobra.Command{
		Use:   "qrnode",
		Short: "QR code read and validate nodes for image pipelines",
		Long: `qrnode provides two pipeline nodes: "Read QR Code" extracts the text of the
first code found in an image, "Validate QR Code" checks that text against an
expected address built from a protocol and free text.

Examples:
  qrnode read label.png
  qrnode validate --extracted https://example.com --protocol Https --text example.com
  qrnode check label.png --protocol Https --text example.com
  qrnode nodes --format yaml
  qrnode serve --port 8188`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $XDG_CONFIG_HOME/qrnode, /etc/qrnode)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	a.bind(root, flagBinding{"verbose", "verbose"}, flagBinding{"log_level", "log-level"})

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.initialize(cmd)
	}

	root.AddCommand(
		newReadCommand(a),
		newValidateCommand(a),
		newCheckCommand(a),
		newNodesCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
	)
	return root
}

// initialize binds flags, loads configuration and installs the logger.
func (a *app) initialize(cmd *cobra.Command) error {
	for _, c := range []*cobra.Command{cmd.Root(), cmd} {
		for _, b := range a.bindings[c] {
			flag := c.Flags().Lookup(b.flag)
			if flag == nil {
				flag = c.PersistentFlags().Lookup(b.flag)
			}
			if err := a.v.BindPFlag(b.key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", b.flag, err)
			}
		}
	}

	a.loader = config.NewLoaderWithViper(a.v)
	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg
	a.registry = node.NewDefaultRegistry(cfg.DecodeOptions(), cfg.Decoder.Library)

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
	return nil
}

// newLogger returns the JSON logger used by every command.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var level slog.Level
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, validation.ErrValidationFailed):
		return ExitValidationFailure
	case errors.Is(err, barcode.ErrMissingDependency):
		return ExitMissingDependency
	default:
		return ExitError
	}
}

// Execute runs the root command and exits with ExitCode on failure.
// This is called by main.main().
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(ExitCode(err))
	}
}
