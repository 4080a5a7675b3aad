package cli

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var (
		address  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dispatch statistics from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("http://%s/stats?detailed=%t", address, detailed)

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("failed to reach server at %s: %w", address, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %s", resp.Status)
			}

			_, err = io.Copy(cmd.OutOrStdout(), resp.Body)
			return err
		},
	}

	cmd.Flags().StringVar(&address, "address", "localhost:8080", "Server address")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include recent execution timestamps")

	return cmd
}
