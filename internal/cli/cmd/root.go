// Package cmd implements the chat CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/chatmesh/chatd/internal/cli/config"
	"github.com/chatmesh/chatd/internal/cli/output"
	"github.com/chatmesh/chatd/pkg/client"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	serverURL  string
	projectID  string
	apiKey     string
	jsonOutput bool
	cfg        *config.Config
	out        *output.Output
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "CLI for the chatd chat backend",
	Long:  `chat is a command-line tool for administering and exercising a chatd server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		out = output.New(jsonOutput)

		// Load config (ignore errors for commands that don't need it)
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			cfg = &config.Config{}
		}

		// Priority: flag > config > default
		if serverURL == "" && cfg.Server != "" {
			serverURL = cfg.Server
		}
		if serverURL == "" {
			serverURL = client.DefaultServer
		}
		if projectID == "" {
			projectID = cfg.ProjectID
		}
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.chatd/config.json)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL")
	rootCmd.PersistentFlags().StringVar(&projectID, "project", "", "project id")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "project API key")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

// getClient creates a client with current config.
func getClient() *client.Client {
	return client.New(
		client.WithServer(serverURL),
		client.WithProject(projectID, apiKey),
	)
}
