package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path (if it exists) over Defaults, loads a
// .env file when present, and applies environment overrides. The result is
// not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Plain names used by hosting platforms.
	setInt(&cfg.Server.Port, "PORT")
	setStr(&cfg.Mongo.URI, "MONGODB_URI")

	setInt(&cfg.Server.Port, "COINMARKET_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "COINMARKET_SERVER_CORS_ORIGINS")

	setStr(&cfg.Mongo.URI, "COINMARKET_MONGO_URI")
	setStr(&cfg.Mongo.Database, "COINMARKET_MONGO_DATABASE")
	setDuration(&cfg.Mongo.ConnectTimeout, "COINMARKET_MONGO_CONNECT_TIMEOUT")
	setDuration(&cfg.Mongo.OpTimeout, "COINMARKET_MONGO_OP_TIMEOUT")

	setBool(&cfg.Redis.Enabled, "COINMARKET_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "COINMARKET_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "COINMARKET_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "COINMARKET_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "COINMARKET_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "COINMARKET_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "COINMARKET_REDIS_TLS_ENABLED")

	setStr(&cfg.Auth.JWTSecret, "COINMARKET_AUTH_JWT_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "COINMARKET_AUTH_TOKEN_TTL")
	setStr(&cfg.Auth.EmailDomain, "COINMARKET_AUTH_EMAIL_DOMAIN")
	setInt(&cfg.Auth.MinPasswordLength, "COINMARKET_AUTH_MIN_PASSWORD_LENGTH")

	setDuration(&cfg.Game.TickInterval, "COINMARKET_GAME_TICK_INTERVAL")
	setInt(&cfg.Game.UTCOffsetHours, "COINMARKET_GAME_UTC_OFFSET_HOURS")
	setInt64(&cfg.Game.StartingCash, "COINMARKET_GAME_STARTING_CASH")
	setInt64(&cfg.Game.AttendanceReward, "COINMARKET_GAME_ATTENDANCE_REWARD")
	setInt64(&cfg.Game.SupportReward, "COINMARKET_GAME_SUPPORT_REWARD")
	setInt64(&cfg.Game.SupportThreshold, "COINMARKET_GAME_SUPPORT_THRESHOLD")
	setInt(&cfg.Game.RankingLimit, "COINMARKET_GAME_RANKING_LIMIT")

	setStr(&cfg.LogLevel, "COINMARKET_LOG_LEVEL")
}

// Each helper only touches dst when the variable is set, non-empty and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}
