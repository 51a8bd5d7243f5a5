package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"ResaleEngine/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. CLAMS_SERVER_ADDR.
const EnvPrefix = "CLAMS"

// DefaultPath is read when neither an explicit path nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pricing   PricingConfig   `yaml:"pricing" envconfig:"PRICING"`
	Comps     CompsConfig     `yaml:"comps" envconfig:"COMPS"`
	Watchlist WatchlistConfig `yaml:"watchlist" envconfig:"WATCHLIST"`
	Telegram  TelegramConfig  `yaml:"telegram" envconfig:"TELEGRAM"`
	Proxy     string          `yaml:"proxy" envconfig:"PROXY"`
}

type ServerConfig struct {
	Addr             string          `yaml:"addr" envconfig:"ADDR"`
	ReadTimeout      time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout     time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout      time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout  time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout   time.Duration   `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	BatchLimit       int             `yaml:"batch_limit" envconfig:"BATCH_LIMIT"`
	BatchConcurrency int             `yaml:"batch_concurrency" envconfig:"BATCH_CONCURRENCY"`
	RateLimit        RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

type RateLimitConfig struct {
	Disabled bool    `yaml:"disabled" envconfig:"DISABLED"`
	RPS      float64 `yaml:"rps" envconfig:"RPS"`
	Burst    int     `yaml:"burst" envconfig:"BURST"`
}

type LoggingConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL"`
	Format    string `yaml:"format" envconfig:"FORMAT"`
	AddSource bool   `yaml:"add_source" envconfig:"ADD_SOURCE"`
}

type PricingConfig struct {
	// DefaultProfit applies when a request omits profit. Nil means model.DefaultProfit.
	DefaultProfit *float64           `yaml:"default_profit" envconfig:"DEFAULT_PROFIT"`
	DefaultPreset string             `yaml:"default_preset" envconfig:"DEFAULT_PRESET"`
	Presets       map[string]float64 `yaml:"presets" envconfig:"PRESETS"`
}

// Profit returns the configured default margin.
func (p PricingConfig) Profit() float64 {
	if p.DefaultProfit == nil {
		return model.DefaultProfit
	}
	return *p.DefaultProfit
}

type CompsConfig struct {
	File string `yaml:"file" envconfig:"FILE"`
}

type WatchlistConfig struct {
	Cron        string      `yaml:"cron" envconfig:"CRON"`
	Concurrency int         `yaml:"concurrency" envconfig:"CONCURRENCY"`
	RunOnStart  bool        `yaml:"run_on_start" envconfig:"RUN_ON_START"`
	Items       []WatchItem `yaml:"items" ignored:"true"`
}

// WatchItem is one query re-appraised on the watchlist schedule.
type WatchItem struct {
	Name           string   `yaml:"name"`
	Query          string   `yaml:"query"`
	Condition      string   `yaml:"condition"`
	Profit         *float64 `yaml:"profit"`
	Preset         string   `yaml:"preset"`
	AlertMetric    string   `yaml:"alert_metric"`
	AlertThreshold float64  `yaml:"alert_threshold"`
	MaxRisk        string   `yaml:"max_risk"`
}

// Alert metrics a watch item can trigger on.
const (
	MetricLiquidityScore = "liquidity_score"
	MetricConfidence     = "confidence"
	MetricMaxBuy         = "max_buy"
)

type TelegramConfig struct {
	BotToken string        `yaml:"bot_token" envconfig:"BOT_TOKEN"`
	ChatID   string        `yaml:"chat_id" envconfig:"CHAT_ID"`
	APIBase  string        `yaml:"api_base" envconfig:"API_BASE"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// Enabled reports whether Telegram credentials are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env, then the YAML file, then CLAMS_* environment overrides,
// and finally fills defaults. An empty path falls back to CONFIG_PATH and
// then DefaultPath; a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

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
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	// HTTPS_PROXY is honoured for the Telegram client when no proxy is configured
	if cfg.Proxy == "" {
		cfg.Proxy = os.Getenv("HTTPS_PROXY")
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.Server.BatchLimit == 0 {
		c.Server.BatchLimit = 50
	}
	if c.Server.BatchConcurrency == 0 {
		c.Server.BatchConcurrency = 8
	}
	if c.Server.RateLimit.RPS == 0 {
		c.Server.RateLimit.RPS = 20
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 40
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Pricing.DefaultPreset == "" {
		c.Pricing.DefaultPreset = model.PresetBalanced
	}
	presets := model.DefaultPresets()
	for name, factor := range c.Pricing.Presets {
		presets[strings.ToLower(name)] = factor
	}
	c.Pricing.Presets = presets
	if c.Comps.File == "" {
		c.Comps.File = "configs/comps.yaml"
	}
	if c.Watchlist.Cron == "" {
		c.Watchlist.Cron = "0 0 9 * * *"
	}
	if c.Watchlist.Concurrency == 0 {
		c.Watchlist.Concurrency = 4
	}
	for i := range c.Watchlist.Items {
		it := &c.Watchlist.Items[i]
		if it.Name == "" {
			it.Name = it.Query
		}
		if it.AlertMetric == "" {
			it.AlertMetric = MetricLiquidityScore
		}
		if it.MaxRisk == "" {
			it.MaxRisk = string(model.RiskHigh)
		}
		it.MaxRisk = strings.ToUpper(it.MaxRisk)
	}
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Telegram.Timeout == 0 {
		c.Telegram.Timeout = 30 * time.Second
	}
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if p := c.Pricing.Profit(); p < model.MinProfit || p > model.MaxProfit {
		return fmt.Errorf("pricing.default_profit must be within [%.2f, %.2f], got %v", model.MinProfit, model.MaxProfit, p)
	}
	for name, factor := range c.Pricing.Presets {
		if factor <= 0 || factor > 1 {
			return fmt.Errorf("pricing.presets.%s must be within (0, 1], got %v", name, factor)
		}
	}
	if _, ok := c.Pricing.Presets[strings.ToLower(c.Pricing.DefaultPreset)]; !ok {
		return fmt.Errorf("pricing.default_preset %q is not a known preset", c.Pricing.DefaultPreset)
	}
	if c.Server.BatchLimit < 1 {
		return fmt.Errorf("server.batch_limit must be positive")
	}
	if c.Server.BatchConcurrency < 1 {
		return fmt.Errorf("server.batch_concurrency must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not one of json, text", c.Logging.Format)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for i, it := range c.Watchlist.Items {
		if strings.TrimSpace(it.Query) == "" {
			return fmt.Errorf("watchlist.items[%d].query is required", i)
		}
		switch it.AlertMetric {
		case MetricLiquidityScore, MetricConfidence, MetricMaxBuy:
		default:
			return fmt.Errorf("watchlist.items[%d].alert_metric %q is not one of %s, %s, %s",
				i, it.AlertMetric, MetricLiquidityScore, MetricConfidence, MetricMaxBuy)
		}
		switch model.RiskLevel(it.MaxRisk) {
		case model.RiskLow, model.RiskModerate, model.RiskHigh:
		default:
			return fmt.Errorf("watchlist.items[%d].max_risk %q is not one of LOW, MODERATE, HIGH", i, it.MaxRisk)
		}
		if it.Preset != "" {
			if _, ok := c.Pricing.Presets[strings.ToLower(it.Preset)]; !ok {
				return fmt.Errorf("watchlist.items[%d].preset %q is not a known preset", i, it.Preset)
			}
		}
	}
	return nil
}
