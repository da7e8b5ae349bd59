// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/joho/godotenv"
)

const (
	DefaultDataDir      = "./data"
	DefaultBackend      = "json"
	DefaultSessionTTL   = 30 * time.Minute
	DefaultMessageLimit = 4000
)

type Config struct {
	BotToken     string
	DataDir      string
	StoreBackend string
	DatabaseURL  string

	AllowedIDs       []int64
	AllowedUsernames []string

	MetricsPort  int
	LogLevel     string
	LogPretty    bool
	SessionTTL   time.Duration
	MessageLimit int

	EnvFile string
}

// ParseFlags reads flags, then an optional .env file, then the environment.
// Flags win over the environment; variables already set win over the file.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var allowIDs, allowUsers string

	fset := flag.NewFlagSet("quickly-ask", flag.ContinueOnError)

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.BotToken, "token", "", "Bot API token (prefer env)")

	// Storage
	fset.StringVar(&cfg.DataDir, "data", "", "Data directory")
	fset.StringVar(&cfg.StoreBackend, "store", "", "Store backend (json, sqlite, postgres or memory)")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL for sqlite or postgres")

	// Operators
	fset.StringVar(&allowIDs, "allow-ids", "", "Comma-separated operator user IDs")
	fset.StringVar(&allowUsers, "allow-users", "", "Comma-separated operator usernames")

	// Runtime
	fset.IntVar(&cfg.MetricsPort, "metrics-port", -1, "Port for /health and /metrics (0 disables)")
	fset.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fset.BoolVar(&cfg.LogPretty, "log-pretty", false, "Human-readable console logs")
	fset.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle timeout for operator sessions")
	fset.IntVar(&cfg.MessageLimit, "message-limit", 0, "Longest message the bot sends, in characters")
	fset.StringVar(&cfg.EnvFile, "env-file", ".env", "Optional dotenv file")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.BotToken == "" {
		cfg.BotToken = os.Getenv("BOT_TOKEN")
	}
	if cfg.BotToken == "" {
		return Config{}, errors.New("bot token required (use -token or BOT_TOKEN env)")
	}

	cfg.DataDir = fallback(cfg.DataDir, "DATA_DIR", DefaultDataDir)
	cfg.StoreBackend = fallback(cfg.StoreBackend, "STORE_BACKEND", DefaultBackend)
	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")
	switch cfg.StoreBackend {
	case "json", "sqlite", "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	ids, err := auth.ParseIDs(fallback(allowIDs, "ALLOWED_USER_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ALLOWED_USER_IDS: %w", err)
	}
	cfg.AllowedIDs = ids
	cfg.AllowedUsernames = auth.ParseHandles(fallback(allowUsers, "ALLOWED_USERNAMES", ""))

	if cfg.MetricsPort < 0 {
		cfg.MetricsPort, err = intEnv("METRICS_PORT", 0)
		if err != nil {
			return Config{}, err
		}
	}

	cfg.LogLevel = fallback(cfg.LogLevel, "LOG_LEVEL", "info")
	if !cfg.LogPretty {
		if v := os.Getenv("LOG_PRETTY"); v != "" {
			pretty, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid LOG_PRETTY env variable")
			}
			cfg.LogPretty = pretty
		}
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
		if v := os.Getenv("SESSION_TTL"); v != "" {
			ttl, err := time.ParseDuration(v)
			if err != nil || ttl <= 0 {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		}
	}

	if cfg.MessageLimit == 0 {
		cfg.MessageLimit, err = intEnv("MESSAGE_LIMIT", DefaultMessageLimit)
		if err != nil {
			return Config{}, err
		}
	}
	if cfg.MessageLimit <= 0 {
		return Config{}, errors.New("message limit must be positive")
	}

	return cfg, nil
}

func fallback(v, env, def string) string {
	if v != "" {
		return v
	}
	if e := os.Getenv(env); e != "" {
		return e
	}
	return def
}

func intEnv(env string, def int) (int, error) {
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return n, nil
}
