// Command server runs the photo shop web application.
//
// main stays small: read configuration, open the store and the external
// clients, hand them to the server package and start it. All settings come
// from the environment (or a .env file); see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/config"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/middleware"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository/backend"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/server"
)

func main() {
	// === 1. LOGGING ===
	// Start at Info; the configured level replaces it once config is loaded.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// === 2. CONFIGURATION ===
	cfg, err := config.Load(logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	// === 3. STORE ===
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. RATE LIMITER ===
	// Left as a nil interface when Redis is not configured or unreachable,
	// which disables limiting.
	var limiter middleware.Counter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable; login rate limiting disabled",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			limiter = rdb
			logger.Info("login rate limiting enabled",
				slog.String("addr", cfg.RedisAddr),
				slog.Int64("limit", cfg.RateLimit),
				slog.Duration("window", cfg.RateLimitWindow),
			)
		}
	}

	// === 5. PAYMENT PROVIDER ===
	provider := payment.NewStripe(cfg.StripeAPIKey, nil, logger)

	// === 6. SERVER ===
	srv, err := server.New(cfg, store, provider, limiter, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
