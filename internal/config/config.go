package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ChartFeed/internal/currency"
	"ChartFeed/internal/model"
)

// Config holds all application configuration.
type Config struct {
	CryptoCompare struct {
		BaseURL      string         `yaml:"base_url"`
		APIKey       string         `yaml:"api_key"`
		Timeout      time.Duration  `yaml:"timeout"`
		RateLimit    float64        `yaml:"rate_limit"`
		ColumnsCount map[string]int `yaml:"columns_count"`
	} `yaml:"cryptocompare"`
	Cache struct {
		RedisAddr string `yaml:"redis_addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		TTL       struct {
			Minute time.Duration `yaml:"minute"`
			Hour   time.Duration `yaml:"hour"`
			Day    time.Duration `yaml:"day"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string   `yaml:"refresh_cron"`
		Pairs       []string `yaml:"pairs"`
		Periods     []string `yaml:"periods"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Currencies []model.Currency `yaml:"currencies"`
	Proxy      string           `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CRYPTOCOMPARE_BASE_URL"); v != "" {
		cfg.CryptoCompare.BaseURL = v
	}
	if v := os.Getenv("CRYPTOCOMPARE_API_KEY"); v != "" {
		cfg.CryptoCompare.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRYPTOCOMPARE_RATE_LIMIT"); v != "" {
		if rl, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CryptoCompare.RateLimit = rl
		}
	}

	// Defaults
	if cfg.CryptoCompare.BaseURL == "" {
		cfg.CryptoCompare.BaseURL = "https://min-api.cryptocompare.com"
	}
	cfg.CryptoCompare.BaseURL = strings.TrimSuffix(cfg.CryptoCompare.BaseURL, "/")
	if cfg.CryptoCompare.Timeout == 0 {
		cfg.CryptoCompare.Timeout = 30 * time.Second
	}
	if cfg.Cache.TTL.Minute == 0 {
		cfg.Cache.TTL.Minute = time.Minute
	}
	if cfg.Cache.TTL.Hour == 0 {
		cfg.Cache.TTL.Hour = 10 * time.Minute
	}
	if cfg.Cache.TTL.Day == 0 {
		cfg.Cache.TTL.Day = time.Hour
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */15 * * * *"
	}
	if len(cfg.Schedule.Periods) == 0 {
		for _, p := range model.AllPeriodTypes() {
			cfg.Schedule.Periods = append(cfg.Schedule.Periods, string(p))
		}
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = currency.Defaults()
	}

	return cfg, nil
}

// Validate checks the fields that would otherwise fail late.
// Missing API credentials are reported per request by the history client instead.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.CryptoCompare.RateLimit < 0 {
		return fmt.Errorf("cryptocompare.rate_limit must not be negative")
	}
	for period, n := range c.CryptoCompare.ColumnsCount {
		if _, err := model.ParsePeriodType(period); err != nil {
			return fmt.Errorf("cryptocompare.columns_count: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("cryptocompare.columns_count.%s must be positive", period)
		}
	}
	for _, p := range c.Schedule.Periods {
		if _, err := model.ParsePeriodType(p); err != nil {
			return fmt.Errorf("schedule.periods: %w", err)
		}
	}
	reg := currency.NewRegistry(c.Currencies)
	for _, p := range c.Schedule.Pairs {
		if _, err := reg.ParsePair(p); err != nil {
			return fmt.Errorf("schedule.pairs: %w", err)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// CacheTTL maps granularities to their raw-series cache lifetime.
func (c *Config) CacheTTL() map[model.Granularity]time.Duration {
	return map[model.Granularity]time.Duration{
		model.GranularityMinute: c.Cache.TTL.Minute,
		model.GranularityHour:   c.Cache.TTL.Hour,
		model.GranularityDay:    c.Cache.TTL.Day,
	}
}
