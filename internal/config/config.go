package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
)

// Module provides *Config loaded from the process arguments and environment.
var Module = fx.Provide(Load)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	SessionSecret      string
	SessionTTL         time.Duration
	CookieSecure       bool
	BcryptCost         int
	HashConcurrency    int
	PlaceOrderAttempts int
	RedisAddress       string
	PINMaxAttempts     int
	PINAttemptWindow   time.Duration
	AMQPURL            string
	OutboxPollInterval time.Duration
	OutboxBatch        int
	RelayWorkers       int
	ShutdownTimeout    time.Duration
	AdminUsername      string
	AdminPassword      string
	LogLevel           string
}

const (
	defaultRunAddress         = ":8080"
	defaultSessionSecret      = "change-me-in-production"
	defaultSessionTTL         = 12 * time.Hour
	defaultHashConcurrency    = 8
	defaultPlaceOrderAttempts = 3
	defaultPINMaxAttempts     = 5
	defaultPINAttemptWindow   = 15 * time.Minute
	defaultOutboxPollInterval = time.Second
	defaultOutboxBatch        = 32
	defaultRelayWorkers       = 2
	defaultShutdownTimeout    = 10 * time.Second
	defaultAdminUsername      = "Admin"
	defaultLogLevel           = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with explicit command line arguments.
func LoadArgs(args []string) (*Config, error) {
	return load(args, os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		SessionSecret:      getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		SessionTTL:         getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		CookieSecure:       getBool(lookup, "COOKIE_SECURE", false),
		BcryptCost:         getInt(lookup, "BCRYPT_COST", 0),
		HashConcurrency:    getInt(lookup, "HASH_CONCURRENCY", defaultHashConcurrency),
		PlaceOrderAttempts: getInt(lookup, "PLACE_ORDER_ATTEMPTS", defaultPlaceOrderAttempts),
		RedisAddress:       getString(lookup, "REDIS_ADDR", ""),
		PINMaxAttempts:     getInt(lookup, "PIN_MAX_ATTEMPTS", defaultPINMaxAttempts),
		PINAttemptWindow:   getDuration(lookup, "PIN_ATTEMPT_WINDOW", defaultPINAttemptWindow),
		AMQPURL:            getString(lookup, "AMQP_URL", ""),
		OutboxPollInterval: getDuration(lookup, "OUTBOX_POLL_INTERVAL", defaultOutboxPollInterval),
		OutboxBatch:        getInt(lookup, "OUTBOX_BATCH", defaultOutboxBatch),
		RelayWorkers:       getInt(lookup, "RELAY_WORKERS", defaultRelayWorkers),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		AdminUsername:      getString(lookup, "ADMIN_USERNAME", defaultAdminUsername),
		AdminPassword:      getString(lookup, "ADMIN_PASSWORD", ""),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("foodcourt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		pollIntervalStr    = cfg.OutboxPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, empty for in-memory storage")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing session tokens")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Session lifetime")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "Send session cookie over HTTPS only")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for PIN attempt limiting")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL for order events")
	fs.IntVar(&cfg.RelayWorkers, "relay-workers", cfg.RelayWorkers, "Number of concurrent outbox publishers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.IntVar(&cfg.OutboxBatch, "poll-batch", cfg.OutboxBatch, "Maximum events per outbox batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.OutboxPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret must not be empty")
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.HashConcurrency <= 0 {
		cfg.HashConcurrency = defaultHashConcurrency
	}

	if cfg.PlaceOrderAttempts <= 0 {
		cfg.PlaceOrderAttempts = defaultPlaceOrderAttempts
	}

	if cfg.PINMaxAttempts <= 0 {
		cfg.PINMaxAttempts = defaultPINMaxAttempts
	}

	if cfg.PINAttemptWindow <= 0 {
		cfg.PINAttemptWindow = defaultPINAttemptWindow
	}

	if cfg.RelayWorkers <= 0 {
		cfg.RelayWorkers = defaultRelayWorkers
	}

	if cfg.OutboxBatch <= 0 {
		cfg.OutboxBatch = defaultOutboxBatch
	}

	if cfg.OutboxPollInterval <= 0 {
		cfg.OutboxPollInterval = defaultOutboxPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
