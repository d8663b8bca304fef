package cli

import (
	"fmt"

	"github.com/Hunteraulo1/f95-france/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(a.cfg, a.log)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if err := database.SeedConfig(db, a.cfg.AppName); err != nil {
				return fmt.Errorf("seed config: %w", err)
			}
			a.log.Info("schema up to date", zap.String("driver", a.cfg.DatabaseDriver))
			return nil
		},
	}
}
