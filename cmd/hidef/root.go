package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/config"
	"github.com/jackzampolin/hidef/internal/home"
	"github.com/jackzampolin/hidef/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hidef",
	Short: "Interactive dictionary where every word is a link",
	Long: `hidef is an interactive dictionary backed by an LLM.

Every word of a definition links onward: clicking a word resolves the
object it names in context and defines it, so reading becomes a walk
through a graph of definitions.

  - Term lookups are answered once and cached for the process lifetime
  - Clicked words are disambiguated using the surrounding definition
  - Any OpenAI-compatible endpoint can answer (OpenAI, OpenRouter, local)`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.hidef/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "hidef home directory (default: ~/.hidef)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory and loads config from --config,
// ./config.yaml or the home directory, in that order.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	cm, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return h, cm, nil
}
