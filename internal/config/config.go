// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is constructed once at
// start-up and passed by reference into the components that need it.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Server   ServerConfig   `mapstructure:"server"`
	Channel  ChannelConfig  `mapstructure:"channel"`
	Rewards  RewardsConfig  `mapstructure:"rewards"`
	Session  SessionConfig  `mapstructure:"session"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds the administrative recipient for redemption requests.
// An ID of 0 disables redemption notifications.
type AdminConfig struct {
	ID int64 `mapstructure:"id"`
}

// ServerConfig holds the health/metrics HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ChannelConfig identifies the channel users must be a member of.
type ChannelConfig struct {
	ID       int64  `mapstructure:"id"`
	Username string `mapstructure:"username"`
}

// RewardsConfig holds the points policy values.
type RewardsConfig struct {
	ReferralBonus int64 `mapstructure:"referral_bonus"`
	DailyBonus    int64 `mapstructure:"daily_bonus"`
	CooldownHours int   `mapstructure:"cooldown_hours"`
}

// SessionConfig holds conversational session settings.
type SessionConfig struct {
	WalletTimeout time.Duration `mapstructure:"wallet_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Cooldown returns the daily bonus cooldown as a duration.
func (r *RewardsConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownHours) * time.Hour
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, ADMIN_ID, REWARDS_REFERRAL_BONUS.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars can provide everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a default
// so AutomaticEnv can bind it even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")

	// Admin recipient: 0 disables redemption notifications
	v.SetDefault("admin.id", 0)

	// Required channel: 0 disables the membership gate
	v.SetDefault("channel.id", 0)
	v.SetDefault("channel.username", "")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.password", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rewards")
	v.SetDefault("database.name", "rewards")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.query_timeout", "5s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Health/metrics server default
	v.SetDefault("server.port", 8080)

	// Reward policy defaults
	v.SetDefault("rewards.referral_bonus", 100)
	v.SetDefault("rewards.daily_bonus", 20)
	v.SetDefault("rewards.cooldown_hours", 24)

	// Session defaults
	v.SetDefault("session.wallet_timeout", "5m")
}

// RedemptionEnabled reports whether an administrative recipient is configured.
func (c *Config) RedemptionEnabled() bool {
	return c.Admin.ID != 0
}
