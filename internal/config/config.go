// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	ListenAddr string

	// Decision oracle.
	GeminiAPIKey  string
	GeminiModel   string
	OracleTimeout time.Duration

	// Optional infrastructure. Empty values disable the integration.
	DatabaseURL string
	RedisAddr   string

	// Auth.
	JWTSecret     string
	TablePasscode string

	// Pacing delay between automated AI steps.
	AITurnDelay time.Duration
}

// Load reads the environment (and .env, if present) into a Config.
// GEMINI_API_KEY may be empty; the game then runs on local heuristics only.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment only")
	}

	cfg := &Config{
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TablePasscode: os.Getenv("TABLE_PASSCODE"),
	}

	var err error
	if cfg.AITurnDelay, err = envDuration("AI_TURN_DELAY_MS", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.OracleTimeout, err = envDuration("ORACLE_TIMEOUT_MS", 8000*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer millisecond count: %w", key, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
