package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/yams/internal/auth"
	"github.com/robalobadob/yams/internal/db"
	"github.com/robalobadob/yams/internal/httpserver"
	"github.com/robalobadob/yams/internal/results"
	"github.com/robalobadob/yams/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Opens the database, applies pending migrations and serves the JSON API
and WebSocket feed until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		conn, err := db.OpenMigrated(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer conn.Close()

		var st store.Store
		switch cfg.GameStore {
		case "memory":
			st = store.NewMemoryStore()
		default:
			st = store.NewSQLiteStore(conn)
		}
		users := auth.NewService(conn, cfg.JWTSecret, time.Duration(cfg.JWTExpiresDays)*24*time.Hour)
		srv := httpserver.New(cfg, st, users, results.NewStore(conn))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("game_store", cfg.GameStore).
			Str("db", cfg.DatabasePath).
			Msg("starting yams server")
		if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
}
