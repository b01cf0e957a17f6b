package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/config"
	"github.com/jackzampolin/hidef/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hidef configuration file",
}

var initForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default config file to --config, or to config.yaml in the
hidef home directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [prefix]",
	Short: "Show the effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cm, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return api.Output(cm.Get().EntriesWithPrefix(args[0]))
		}
		return api.Output(cm.Get())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a single config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateKey(args[0]); err != nil {
			return err
		}
		_, cm, err := loadConfig()
		if err != nil {
			return err
		}
		value, ok := cm.Lookup(args[0])
		if !ok {
			return fmt.Errorf("config key not set: %s", args[0])
		}
		return api.Output(config.Entry{Key: args[0], Value: value})
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		// NewManager validates on load.
		_, cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		source := cm.ConfigFile()
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Printf("%s: ok\n", source)

		p, ok := cfg.GetLLMProvider(cfg.Defaults.LLMProvider)
		switch {
		case !ok || !p.Enabled:
			fmt.Printf("warning: default provider %q is not enabled\n", cfg.Defaults.LLMProvider)
		case config.ResolveEnvVars(p.APIKey) == "":
			fmt.Printf("warning: default provider %q has no API key; lookups will fail\n", cfg.Defaults.LLMProvider)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
