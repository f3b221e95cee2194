// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"streambox/internal/config"
	"streambox/internal/logging"
	"streambox/internal/router"
	"streambox/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON    bool
	flagDebug   bool
	flagPlayer  string
	flagBaseURL string
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "streambox [request]",
	Short: "Browse and play the StreamBox catalog from the terminal",
	Long: `StreamBox runs one navigation request against the StreamBox catalog and
prints the resulting listing, e.g.

  streambox "?action=movies&page=2"
  streambox "?action=movie_detail&movie_id=5"

Without a request the main menu is shown. Use "streambox browse" to navigate
interactively.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              navigateRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print listings as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "StreamBox API base URL")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = logging.Setup(logging.Options{File: cfg.LogFile, Debug: cfg.Debug}, os.Stderr)
	slog.SetDefault(logger)
	return nil
}

// navigateRun is the default command: streambox [request]
func navigateRun(cmd *cobra.Command, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	req, err := router.ParseRequest(raw)
	if err != nil {
		return err
	}

	var opts []ui.TerminalOption
	if flagJSON {
		opts = append(opts, ui.WithJSON())
	}
	term := ui.NewTerminal(os.Stdout, os.Stderr, opts...)

	r, err := newRouter(cfg, logger, term)
	if err != nil {
		return err
	}
	return r.Dispatch(cmd.Context(), req)
}
