package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gragra33/blazing-mediator/internal/infrastructure/config"
	"github.com/gragra33/blazing-mediator/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			cmd.Println("migrations applied")
			return nil
		},
	}
}
