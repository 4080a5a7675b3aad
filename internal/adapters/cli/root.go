// Package cli holds the cobra commands of the orders sample app.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand creates the root command for the orders API CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orders-api",
		Short: "Orders API - sample CRUD service built on the mediator",
		Long: `Orders API serves a small order management REST API. Every endpoint
dispatches through the mediator, so the service doubles as a demonstration
of request dispatch, streaming, notification fan-out and the middleware
pipeline.

Examples:
  orders-api serve
  orders-api migrate
  orders-api stats --address localhost:8080`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs, /etc/orders-api)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}
