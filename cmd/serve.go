package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/core/config"
	"github.com/lucasz92/zenitwms-sub000/internal/core/container"
	"github.com/lucasz92/zenitwms-sub000/internal/core/logger"
	"github.com/lucasz92/zenitwms-sub000/internal/core/routes"
	"github.com/lucasz92/zenitwms-sub000/internal/database"
	"github.com/lucasz92/zenitwms-sub000/internal/database/migration"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.NewLogger(cfg.Env)
		defer log.Sync()

		return serve(cmd.Context(), cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Connected to the database")

	if cfg.MigrateOnStart {
		source, err := migration.SourceURL(cfg.MigrationsDir)
		if err != nil {
			return err
		}
		if err := migration.Migrate(cfg.DatabaseURL, source, false, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		if rdb, err = database.NewRedis(ctx, cfg.RedisURL); err != nil {
			log.Warn("Redis unavailable, dashboard stats will not be cached", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	c := container.NewAppContainer(db, rdb, cfg, log)
	go c.AssistantLimiter.Run(ctx, time.Minute)
	defer c.AssistantLimiter.Stop()

	server := &http.Server{
		Addr:              cfg.AppHost,
		Handler:           routes.NewRouter(c, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.AppHost))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
