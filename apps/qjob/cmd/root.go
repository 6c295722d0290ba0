package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/qconf"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qlog"
)

type contextKey string

const (
	configContextKey contextKey = "qjobconfig"
	loggerContextKey contextKey = "qjoblogger"
)

// flagKeys maps command-line flags onto config keys. Flags override every other source.
var flagKeys = map[string]string{
	"scheduler": qconf.SchedulerKey,
	"threads":   qconf.ThreadsKey,
	"tmpdir":    qconf.TmpDirKey,
	"timeout":   qconf.TimeoutKey,
	"log-level": qconf.LogLevelKey,
	"archive":   "archive.enabled",
	"export":    "export.enabled",
}

var (
	cfgFile string
	noColor bool
	rootCmd = &cobra.Command{
		Use:   "qjob",
		Short: "Look up historical job metadata from the cluster scheduler",
		Long: `qjob retrieves accounting records for batch jobs and prints them as a
tab-separated table with a fixed set of 19 columns.

It prefers the site's fast dashboard tool and falls back to sacct when the
dashboard is not installed. Missing values are shown as "-".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := qconf.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			for name, key := range flagKeys {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := cfg.Viper().BindPFlag(key, f); err != nil {
						return err
					}
				}
			}
			if err := cfg.Reload(); err != nil {
				return err
			}

			level, err := qlog.ParseLevel(cfg.Log.Level)
			if err != nil {
				return qerr.New(qerr.CodeConfig, err)
			}
			logger := qlog.NewLogger(level, os.Stderr, cliStyle())

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			ctx = context.WithValue(ctx, loggerContextKey, logger)
			cmd.SetContext(ctx)

			return nil
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*qconf.Config, error) {
	cfg, ok := cmd.Context().Value(configContextKey).(*qconf.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

// GetLogger retrieves the logger from the command context, or a default one.
func GetLogger(cmd *cobra.Command) *qlog.Logger {
	if l, ok := cmd.Context().Value(loggerContextKey).(*qlog.Logger); ok {
		return l
	}
	return errorLogger(os.Stderr)
}

// cliStyle honors --no-color.
func cliStyle() qlog.Style {
	if noColor {
		return qlog.PlainStyle()
	}
	return qlog.DefaultStyle()
}

// errorLogger reports failures that happen before or outside a command's own logger.
func errorLogger(w io.Writer) *qlog.Logger {
	return qlog.NewLogger(slog.LevelInfo, w, cliStyle())
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		exitIfError(errorLogger(os.Stderr), err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: qjob.yaml, qjob.yml, .qjob.yaml, then merges .qjob/config.yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}
