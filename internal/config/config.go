// Package config reads the shop's settings from the environment once at
// startup. A .env file in the working directory, when present, is loaded
// first; variables already set in the environment win over it.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	DBDriver string
	DBPath   string // SQLite file for the sqlite driver
	DBURI    string // connection string for postgres and gorm

	// SessionHashKey signs and SessionBlockKey encrypts the session cookie.
	SessionHashKey  []byte
	SessionBlockKey []byte
	JWTSecret       string
	CSRFKey         []byte
	CookieSecure    bool

	StripeAPIKey string
	// SiteDomain is the public base URL the payment provider redirects
	// back to, e.g. https://shop.example.com.
	SiteDomain string

	// RedisAddr enables login/register rate limiting when set.
	RedisAddr       string
	RateLimit       int64
	RateLimitWindow time.Duration
}

// Load reads the configuration. Missing secrets are replaced by random
// values with a warning, which is fine for development and means every
// restart logs everyone out.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:       getEnv("DB_PATH", "purchases.db"),
		DBURI:        os.Getenv("DB_URI"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		StripeAPIKey: os.Getenv("STRIPE_API_KEY"),
		SiteDomain:   strings.TrimRight(getEnv("SITE_DOMAIN", ""), "/"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("config: PORT %q is not a number", cfg.Port)
	}
	if cfg.SiteDomain == "" {
		cfg.SiteDomain = "http://localhost:" + cfg.Port
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DBURI == "" {
			return nil, errors.New("config: DB_URI is required for DB_DRIVER=postgres")
		}
	case DriverGorm:
		if cfg.DBURI == "" {
			cfg.DBURI = cfg.DBPath
		}
	default:
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q (want sqlite, postgres or gorm)", cfg.DBDriver)
	}

	limit, err := strconv.ParseInt(getEnv("RATE_LIMIT", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT: %w", err)
	}
	cfg.RateLimit = limit
	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.RateLimitWindow = window

	// The original deployment called the session secret FLASK_KEY.
	sessionSecret := getEnv("SESSION_SECRET", os.Getenv("FLASK_KEY"))
	if sessionSecret == "" {
		logger.Warn("SESSION_SECRET not set; generating a random one. Sessions will not survive a restart.")
		sessionSecret = hex.EncodeToString(randomBytes(32))
	}
	cfg.SessionHashKey, cfg.SessionBlockKey = sessionKeys(sessionSecret)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < 16 {
		if cfg.JWTSecret != "" {
			logger.Warn("JWT_SECRET shorter than 16 characters; ignoring it")
		} else {
			logger.Warn("JWT_SECRET not set; generating a random one. Logins will not survive a restart.")
		}
		cfg.JWTSecret = hex.EncodeToString(randomBytes(32))
	}

	cfg.CSRFKey, err = decodeKey(os.Getenv("CSRF_KEY"))
	if err != nil {
		logger.Warn("CSRF_KEY not set or invalid (want 32 bytes, base64); generating a random one", slog.String("reason", err.Error()))
		cfg.CSRFKey = randomBytes(32)
	}

	if cfg.StripeAPIKey == "" {
		logger.Warn("STRIPE_API_KEY not set; product management and checkout will fail")
	}

	return cfg, nil
}

// sessionKeys derives the cookie signing and encryption keys from one secret
// so operators only manage a single value.
func sessionKeys(secret string) (hashKey, blockKey []byte) {
	h := sha256.Sum256([]byte("session-hash:" + secret))
	b := sha256.Sum256([]byte("session-block:" + secret))
	return h[:], b[:]
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty")
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("decoded key is %d bytes", len(key))
	}
	return key, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("config: reading random bytes: %v", err))
	}
	return b
}
