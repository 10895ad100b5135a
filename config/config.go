// Package config loads runtime settings from a .env file, environment
// variables, and defaults, in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Market MarketConfig `mapstructure:"market"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Feed   FeedConfig   `mapstructure:"feed"`
	Outbox OutboxConfig `mapstructure:"outbox"`
}

type MarketConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	RecencyWindow  time.Duration `mapstructure:"recency_window"`
	LeaderboardCap int           `mapstructure:"leaderboard_cap"`
	StartingCash   float64       `mapstructure:"starting_cash"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	TickTopic  string   `mapstructure:"tick_topic"`
	EventTopic string   `mapstructure:"event_topic"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type FeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type OutboxConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Load reads configuration. Missing .env is fine; env vars use underscore
// notation (MARKET_TICK_INTERVAL, KAFKA_BROKERS, ...).
func Load() (*Config, error) {
	v := viper.New()

	_ = godotenv.Load()

	v.SetDefault("market.tick_interval", 3*time.Second)
	v.SetDefault("market.recency_window", 300*time.Second)
	v.SetDefault("market.leaderboard_cap", 50)
	v.SetDefault("market.starting_cash", 100000.0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.tick_topic", "market_ticks")
	v.SetDefault("kafka.event_topic", "market_events")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.addr", ":8090")

	v.SetDefault("outbox.enabled", false)
	v.SetDefault("outbox.dir", "data/outbox")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v,
		"market.tick_interval", "market.recency_window",
		"market.leaderboard_cap", "market.starting_cash",
		"kafka.enabled", "kafka.brokers", "kafka.tick_topic", "kafka.event_topic",
		"redis.enabled", "redis.addr", "redis.password", "redis.db",
		"feed.enabled", "feed.addr",
		"outbox.enabled", "outbox.dir",
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Market.TickInterval <= 0 {
		return nil, fmt.Errorf("market tick interval must be positive")
	}
	if cfg.Market.LeaderboardCap <= 0 {
		return nil, fmt.Errorf("leaderboard cap must be positive")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka enabled but no brokers configured")
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// Seed is a symbol available at startup.
type Seed struct {
	Symbol string
	Name   string
	Price  float64
}

// DefaultUniverse lists the symbols the market opens with.
func DefaultUniverse() []Seed {
	return []Seed{
		{"AAPL", "Apple Inc.", 175.50},
		{"GOOGL", "Alphabet Inc.", 2850.00},
		{"MSFT", "Microsoft Corp.", 380.25},
		{"TSLA", "Tesla Inc.", 850.75},
		{"AMZN", "Amazon.com Inc.", 3200.00},
		{"META", "Meta Platforms Inc.", 485.30},
		{"NVDA", "NVIDIA Corp.", 750.20},
		{"NFLX", "Netflix Inc.", 420.15},
		{"AMD", "Advanced Micro Devices", 140.80},
		{"INTC", "Intel Corp.", 55.90},
	}
}
