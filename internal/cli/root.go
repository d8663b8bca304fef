package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has loaded it
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

// NewRootCommand returns the `tracker` command tree
func NewRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Translation tracker API server and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json, toml); defaults to $CONFIG_FILE")

	cmd.AddCommand(newServeCommand(a), newMigrateCommand(a), newUserCommand(a))
	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
