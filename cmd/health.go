package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the catalog API is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to the catalog at %s...\n", client.BaseURL())

	status, err := client.HealthCheck(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Catalog status: %s\n", status.Status)
	fmt.Fprintf(out, "- Session: %s\n", boolToStatus(client.IsAuthenticated(), "logged in", "logged out"))
	return nil
}

func boolToStatus(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
