// Package cmd holds the yams command line: serve, migrate and version.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/yams/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "yams",
	Short: "Yam's dice game server",
	Long: `yams runs the Yam's backend: accounts, multiplayer games scored on
14-category cards, a live WebSocket feed and a leaderboard.

Settings come from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

// Execute runs the root command. It exits the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads settings and configures the global logger from them.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Use console writer for development (colored output)
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
