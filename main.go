// Package main is the numerix server entrypoint.
//
//	numerix serve                 run the HTTP API
//	numerix daily --date D -n 7   print daily challenges starting at D
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/numerix/apps/go-server/internal/config"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/db"
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/httpserver"
	"github.com/robalobadob/numerix/apps/go-server/internal/puzzle"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
	"github.com/robalobadob/numerix/apps/go-server/internal/store"
)

var (
	dailyDate string
	dailyDays int
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "numerix",
		Short:        "Number-guessing game server",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	})

	dailyCmd := &cobra.Command{
		Use:   "daily",
		Short: "Print daily challenges",
		RunE:  runDaily,
	}
	dailyCmd.Flags().StringVar(&dailyDate, "date", "", "first date (YYYY-MM-DD, default today UTC)")
	dailyCmd.Flags().IntVarP(&dailyDays, "days", "n", 1, "number of consecutive days")
	rootCmd.AddCommand(dailyCmd)
	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("open database")
		return err
	}
	defer conn.Close()

	kv, err := openKV(cmd.Context(), cfg, conn)
	if err != nil {
		return err
	}
	pg, err := puzzle.NewGenerator()
	if err != nil {
		log.Error().Err(err).Msg("failed to load puzzle templates")
		return err
	}

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		DB:       conn,
		KV:       kv,
		Registry: game.NewRegistry(),
		Speed:    speed.NewGenerator(),
		Puzzle:   pg,
	})
	defer srv.Close()
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("starting numerix server")
	return srv.Start(":" + cfg.Port)
}

// openKV selects the player-record backend.
func openKV(ctx context.Context, cfg *config.Config, conn *sql.DB) (store.KV, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("player records are kept in memory only")
		return store.NewMemory(), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			log.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
			return nil, err
		}
		return store.NewRedis(client, "numerix:"), nil
	default:
		return store.NewSQLite(conn), nil
	}
}

func runDaily(cmd *cobra.Command, _ []string) error {
	start := time.Now().UTC()
	if dailyDate != "" {
		t, err := daily.ParseDateKey(dailyDate)
		if err != nil {
			return fmt.Errorf("bad --date: %w", err)
		}
		start = t
	}
	if dailyDays < 1 {
		dailyDays = 1
	}
	out := cmd.OutOrStdout()
	for i := 0; i < dailyDays; i++ {
		ch, err := daily.Generate(start.AddDate(0, 0, i))
		if err != nil {
			return err
		}
		rule := string(ch.SpecialRule)
		if rule == "" {
			rule = "-"
		}
		fmt.Fprintf(out, "%s  target=%-3d range=1-%-3d trials=%d  %-6s  %s\n",
			ch.Date, ch.TargetNumber, ch.MaxRange, ch.Trials, ch.Difficulty, rule)
	}
	return nil
}
