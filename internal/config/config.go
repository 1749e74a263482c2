package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sortwatch/internal/publish"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete pipeline configuration.
type AppConfig struct {
	DatabaseURL string
	Object      publish.ObjectConfig

	// WindowDays is the trailing event window the resolvers consume.
	WindowDays int
	// AggTrailingDays / AggLeadingDays bound the published aggregate around
	// the run date.
	AggTrailingDays int
	AggLeadingDays  int
	// CarrierPrefixes are the ship-method prefixes the joiner accepts;
	// anything else marks the row re-slammed.
	CarrierPrefixes []string

	Interval    time.Duration // schedule mode cadence
	MetricsAddr string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	if exePath, err := os.Executable(); err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	databaseURL := getEnv("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}

	intervalMins, _ := strconv.Atoi(getEnv("RUN_INTERVAL_MINUTES", "60"))

	cfg := &AppConfig{
		DatabaseURL: databaseURL,
		Object: publish.ObjectConfig{
			Endpoint:        getEnv("OBJECT_ENDPOINT", "localhost:9000"),
			AccessKey:       getEnv("OBJECT_ACCESS_KEY", ""),
			SecretKey:       getEnv("OBJECT_SECRET_KEY", ""),
			UseSSL:          getEnvBool("OBJECT_USE_SSL", false),
			Bucket:          getEnv("OBJECT_BUCKET", "backlog-reports"),
			SecondaryBucket: getEnv("OBJECT_SECONDARY_BUCKET", ""),
			Prefix:          getEnv("OBJECT_PREFIX", "backlog/"),
		},
		WindowDays:      getEnvInt("WINDOW_DAYS", 7),
		AggTrailingDays: getEnvInt("AGG_TRAILING_DAYS", 6),
		AggLeadingDays:  getEnvInt("AGG_LEADING_DAYS", 4),
		CarrierPrefixes: splitList(getEnv("CARRIER_PREFIXES", "AMZL,AMXL")),
		Interval:        time.Duration(intervalMins) * time.Minute,
		MetricsAddr:     getEnv("METRICS_ADDR", ":9190"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
