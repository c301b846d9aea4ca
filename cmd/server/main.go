package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docclock-api/internal/config"
	"docclock-api/internal/handler"
	"docclock-api/internal/middleware"
	"docclock-api/internal/service"
	"docclock-api/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docclock-server",
		Short: "DocClock appointment scheduling API",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	users, appts, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer cleanup()

	svc := service.New(users, appts, service.WeightedRandomRisk{})
	h := handler.New(svc, cfg.JWTSecret, cfg.TokenTTL())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	h.Register(e, rl)

	go func() {
		logger.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	return nil
}

// openStore builds the configured backend and returns its repositories plus
// a cleanup hook for shutdown.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.UserRepository, store.AppointmentRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("db ping: %w", err)
		}
		logger.Info().Msg("connected to postgres")
		return store.NewPGUserRepo(pool), store.NewPGAppointmentRepo(pool), pool.Close, nil

	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("data dir: %w", err)
		}
		users := store.NewMemoryUserRepo(cfg.DataDir)
		appts := store.NewMemoryAppointmentRepo(cfg.DataDir)
		if err := users.Load(); err != nil {
			return nil, nil, nil, err
		}
		if err := appts.Load(); err != nil {
			return nil, nil, nil, err
		}
		// empty store gets the demo dataset, as the file-backed variant
		// always shipped with one
		if err := store.Seed(ctx, users, appts); err != nil {
			return nil, nil, nil, fmt.Errorf("seed: %w", err)
		}
		cleanup := func() {
			if err := users.Flush(); err != nil {
				logger.Error().Err(err).Msg("flush users")
			}
			if err := appts.Flush(); err != nil {
				logger.Error().Err(err).Msg("flush appointments")
			}
		}
		return users, appts, cleanup, nil
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}

			migration, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read migration: %w", err)
			}

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db: %w", err)
			}
			defer pool.Close()

			if _, err := pool.Exec(ctx, string(migration)); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("migration applied")
			return nil
		},
	}
	cmd.Flags().String("file", "db/migrations/001_init.sql", "Path to the migration file")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo dataset into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			users, appts, cleanup, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Seed(ctx, users, appts); err != nil {
				return err
			}
			nu, na, _ := serviceCounts(ctx, users, appts)
			fmt.Printf("store ready: %d users, %d appointments\n", nu, na)
			return nil
		},
	}
}

func serviceCounts(ctx context.Context, users store.UserRepository, appts store.AppointmentRepository) (int, int, error) {
	nu, err := users.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	na, err := appts.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return nu, na, nil
}
