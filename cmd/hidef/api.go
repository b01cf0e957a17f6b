package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/server/endpoints"
)

var serverURL string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configuration settings commands",
}

var llmcallsCmd = &cobra.Command{
	Use:   "llmcalls",
	Short: "LLM call history commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Top-level endpoints; grouped ones are added below.
	top := api.NewRegistry()
	for _, ep := range []api.Endpoint{
		&endpoints.HealthEndpoint{},
		&endpoints.ReadyEndpoint{},
		&endpoints.StatusEndpoint{},
		&endpoints.DefineEndpoint{},
		&endpoints.ClickEndpoint{},
		&endpoints.CacheStatsEndpoint{},
		&endpoints.MetricsEndpoint{},
		&endpoints.SwaggerEndpoint{},
		&endpoints.SwaggerUIEndpoint{},
	} {
		top.Register(ep)
	}
	apiCmd := top.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Settings as subcommand group
	for _, ep := range endpoints.SettingsCommands() {
		settingsCmd.AddCommand(ep.Command(getServerURL))
	}

	// LLM calls as subcommand group
	for _, ep := range endpoints.LLMCallCommands() {
		llmcallsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(waitCmd)
	apiCmd.AddCommand(settingsCmd)
	apiCmd.AddCommand(llmcallsCmd)
	rootCmd.AddCommand(apiCmd)
}

var (
	waitAttempts uint
	waitDelay    time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the server is ready to answer lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(getServerURL())
		if err := client.WaitReady(cmd.Context(), waitAttempts, waitDelay); err != nil {
			return err
		}
		fmt.Println("ready")
		return nil
	},
}

func init() {
	waitCmd.Flags().UintVar(&waitAttempts, "attempts", 30, "Number of readiness checks")
	waitCmd.Flags().DurationVar(&waitDelay, "delay", time.Second, "Delay between checks")
}
