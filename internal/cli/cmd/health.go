package cmd

import (
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Long:  `Check the readiness of the chatd server and its dependencies.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := getClient()

		status, err := c.Ready(cmd.Context())
		if err != nil {
			if jsonOutput {
				out.JSON(map[string]any{
					"status": "error",
					"error":  err.Error(),
				})
			} else {
				out.Error("Server unreachable: %v", err)
			}
			return
		}

		if jsonOutput {
			out.JSON(status)
			return
		}

		out.Success("Server is %s", status.Status)
		out.KeyValue("Database", status.Database)
		out.KeyValue("NATS", status.NATS)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
