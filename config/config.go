// Package config defines the server configuration and its validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is populated from a TOML file and then overridden by environment
// variables.
type Config struct {
	Server   ServerConfig `toml:"server"`
	Mongo    MongoConfig  `toml:"mongo"`
	Redis    RedisConfig  `toml:"redis"`
	Auth     AuthConfig   `toml:"auth"`
	Game     GameConfig   `toml:"game"`
	LogLevel string       `toml:"log_level"`
}

type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type MongoConfig struct {
	URI            string        `toml:"uri"`
	Database       string        `toml:"database"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	OpTimeout      time.Duration `toml:"op_timeout"`
}

// RedisConfig is optional; with Enabled false the scheduler lock, the hub
// relay and the token denylist run in-process.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

type AuthConfig struct {
	JWTSecret         string        `toml:"jwt_secret"`
	TokenTTL          time.Duration `toml:"token_ttl"`
	EmailDomain       string        `toml:"email_domain"`
	MinPasswordLength int           `toml:"min_password_length"`
}

type GameConfig struct {
	TickInterval     time.Duration `toml:"tick_interval"`
	UTCOffsetHours   int           `toml:"utc_offset_hours"`
	StartingCash     int64         `toml:"starting_cash"`
	AttendanceReward int64         `toml:"attendance_reward"`
	SupportReward    int64         `toml:"support_reward"`
	SupportThreshold int64         `toml:"support_threshold"`
	RankingLimit     int           `toml:"ranking_limit"`
}

// Defaults returns a Config with every field set to its built-in value.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: 5000},
		Mongo: MongoConfig{
			Database:       "coin_market",
			ConnectTimeout: 30 * time.Second,
			OpTimeout:      5 * time.Second,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Auth: AuthConfig{
			TokenTTL:          7 * 24 * time.Hour,
			EmailDomain:       "urlcoin.game",
			MinPasswordLength: 6,
		},
		Game: GameConfig{
			TickInterval:     time.Second,
			UTCOffsetHours:   9,
			StartingCash:     500000,
			AttendanceReward: 100000,
			SupportReward:    50000,
			SupportThreshold: 10000,
			RankingLimit:     100,
		},
		LogLevel: "info",
	}
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []string
	if c.Mongo.URI == "" {
		errs = append(errs, "mongo.uri is required (or MONGODB_URI)")
	}
	if c.Mongo.Database == "" {
		errs = append(errs, "mongo.database is required")
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if c.Auth.EmailDomain == "" {
		errs = append(errs, "auth.email_domain is required")
	}
	if c.Game.TickInterval <= 0 {
		errs = append(errs, "game.tick_interval must be positive")
	}
	if c.Game.UTCOffsetHours < -12 || c.Game.UTCOffsetHours > 14 {
		errs = append(errs, "game.utc_offset_hours out of range")
	}
	if c.Game.StartingCash < 0 {
		errs = append(errs, "game.starting_cash must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required when redis is enabled")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
