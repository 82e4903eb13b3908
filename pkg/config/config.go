package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Provider struct {
		ChartURL       string        `yaml:"chart_url"`
		QuoteURL       string        `yaml:"quote_url"`
		SummaryURL     string        `yaml:"summary_url"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerSec float64       `yaml:"requests_per_sec"`
		Burst          int           `yaml:"burst"`
	} `yaml:"provider"`
	Cache struct {
		QuoteTTL        time.Duration `yaml:"quote_ttl"`
		HistoricalTTL   time.Duration `yaml:"historical_ttl"`
		FundamentalsTTL time.Duration `yaml:"fundamentals_ttl"`
		MemoryMaxSize   int           `yaml:"memory_max_size"`
		Redis           struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AlertTopic   string   `yaml:"alert_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Consumer     struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Alerts struct {
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"alerts"`
	Leaderboard struct {
		SnapshotInterval time.Duration `yaml:"snapshot_interval"`
		Range            string        `yaml:"range"`
		Workers          int           `yaml:"workers"`
	} `yaml:"leaderboard"`
	Stream struct {
		PushInterval time.Duration `yaml:"push_interval"`
		MaxSymbols   int           `yaml:"max_symbols"`
	} `yaml:"stream"`
	Rewards struct {
		BaseXP      int `yaml:"base_xp"`
		StreakBonus int `yaml:"streak_bonus"`
		MaxBonus    int `yaml:"max_bonus"`
	} `yaml:"rewards"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.RequestsPerSec == 0 {
		c.Provider.RequestsPerSec = 10
	}
	if c.Provider.Burst == 0 {
		c.Provider.Burst = 5
	}
	if c.Cache.QuoteTTL == 0 {
		c.Cache.QuoteTTL = 15 * time.Minute
	}
	if c.Cache.HistoricalTTL == 0 {
		c.Cache.HistoricalTTL = 15 * time.Minute
	}
	if c.Cache.FundamentalsTTL == 0 {
		c.Cache.FundamentalsTTL = 15 * time.Minute
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "stocksquad"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Alerts.SweepInterval == 0 {
		c.Alerts.SweepInterval = time.Minute
	}
	if c.Leaderboard.SnapshotInterval == 0 {
		c.Leaderboard.SnapshotInterval = time.Hour
	}
	if c.Leaderboard.Range == "" {
		c.Leaderboard.Range = "1M"
	}
	if c.Leaderboard.Workers == 0 {
		c.Leaderboard.Workers = 4
	}
	if c.Stream.PushInterval == 0 {
		c.Stream.PushInterval = 15 * time.Second
	}
	if c.Stream.MaxSymbols == 0 {
		c.Stream.MaxSymbols = 20
	}
	if c.Rewards.BaseXP == 0 {
		c.Rewards.BaseXP = 10
	}
	if c.Rewards.StreakBonus == 0 {
		c.Rewards.StreakBonus = 5
	}
	if c.Rewards.MaxBonus == 0 {
		c.Rewards.MaxBonus = 50
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.ChartURL == "" {
		return fmt.Errorf("provider.chart_url is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
