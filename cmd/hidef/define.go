package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/server"
	"github.com/jackzampolin/hidef/internal/server/endpoints"
)

var (
	verbose    bool
	clickIndex int
)

var defineCmd = &cobra.Command{
	Use:   "define <term>",
	Short: "Define a term without a server",
	Long: `Define a term by calling the configured LLM provider directly.

Nothing is cached between invocations; use "hidef serve" for a shared cache.

Examples:
  hidef define algebra
  hidef define "high definition" -o text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveLocally(cmd.Context(), func(ctx context.Context, svc *dictionary.Service) (dictionary.Resolution, error) {
			return svc.ResolveByTerm(ctx, args[0])
		})
	},
}

var clickCmd = &cobra.Command{
	Use:   "click <definition-or-key>",
	Short: "Resolve a clicked word without a server",
	Long: `Resolve a clicked word in the context of its definition by calling the
configured LLM provider directly.

Pass a key with exactly one [bracketed] word, or a plain definition with
--index selecting the clicked word (0-based).

Examples:
  hidef click "A [tree] data structure in which each internal node has four children"
  hidef click "A tree data structure in which each internal node has four children" --index 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := endpoints.ClickKeyFromArgs(args[0], clickIndex)
		if err != nil {
			return err
		}
		return resolveLocally(cmd.Context(), func(ctx context.Context, svc *dictionary.Service) (dictionary.Resolution, error) {
			return svc.ResolveByClick(ctx, key)
		})
	},
}

func resolveLocally(ctx context.Context, resolve func(context.Context, *dictionary.Service) (dictionary.Resolution, error)) error {
	h, cm, err := loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stack, err := server.BuildServices(server.ServicesConfig{
		ConfigManager:    cm,
		RecorderCapacity: 8,
		Home:             h,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	if !stack.Services.Registry.HasDefaultLLM() {
		return errors.New("no LLM provider available: set the provider's API key (e.g. OPENAI_API_KEY) or run \"hidef config init\"")
	}

	res, err := resolve(ctx, stack.Services.Dictionary)
	if err != nil {
		return err
	}
	return api.Output(dictionary.NewPage(res))
}

func init() {
	for _, cmd := range []*cobra.Command{defineCmd, clickCmd} {
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log oracle calls to stderr")
	}
	clickCmd.Flags().IntVar(&clickIndex, "index", -1, "Index of the clicked word when passing a plain definition")

	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(clickCmd)
}
