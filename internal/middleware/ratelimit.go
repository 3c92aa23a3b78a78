package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the part of a Redis client the limiter uses. *redis.Client
// satisfies it. EXPIRE NX needs Redis 7 or later.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit allows limit requests per client IP in each window, counted in
// Redis so the limit holds across server instances.
//
// With a nil counter the middleware passes everything through. Redis errors
// let the request through too.
func RateLimit(counter Counter, limit int64, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if counter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// GETs only render the form.
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := "rate_limit:" + r.URL.Path + ":" + clientIP(r)

			count, err := counter.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			// NX only sets a TTL on a key without one, so a window whose
			// first EXPIRE failed is repaired by the next request.
			if err := counter.ExpireNX(ctx, key, window).Err(); err != nil {
				logger.Warn("rate limiter could not set window",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}

			if count > limit {
				logger.Warn("rate limit exceeded", slog.String("key", key), slog.Int64("count", count))
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "Too many requests, please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is RemoteAddr without the port. chi's RealIP middleware, mounted
// earlier, has already replaced it with X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
