package cmd

import (
	"github.com/chatmesh/chatd/internal/cli/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			out.JSON(cfg)
			return
		}

		out.Header("Configuration")
		out.KeyValue("Server", cfg.Server)
		out.KeyValue("Project", cfg.ProjectID)
		key := cfg.APIKey
		if len(key) > 8 {
			key = key[:8] + "..."
		}
		out.KeyValue("API Key", key)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store server and project credentials",
	Long:  `Store the values passed via --server, --project and --api-key in the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if serverURL != "" {
			cfg.Server = serverURL
		}
		if projectID != "" {
			cfg.ProjectID = projectID
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}

		if err := config.Save(cfg, cfgFile); err != nil {
			out.Error("Failed to save config: %v", err)
			return
		}

		if jsonOutput {
			out.JSON(cfg)
			return
		}
		out.Success("Configuration saved")
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
