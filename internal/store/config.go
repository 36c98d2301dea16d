package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`
	Symbol      string `yaml:"symbol"`
	Timeframe   string `yaml:"timeframe"`
	PollSeconds int    `yaml:"poll_seconds"`
	Server      struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Model struct {
		DefaultID string `yaml:"default_id"`
	} `yaml:"model"`
	Risk struct {
		AccountBalance      float64 `yaml:"account_balance"`
		PerTradeRisk        float64 `yaml:"per_trade_risk"`
		MaxLot              float64 `yaml:"max_lot"`
		SignalExpiryMinutes int     `yaml:"signal_expiry_minutes"`
	} `yaml:"risk"`
	Training struct {
		Window  int     `yaml:"window"`
		Horizon int     `yaml:"horizon"`
		MinBars int     `yaml:"min_bars"`
		MaxBars int     `yaml:"max_bars"`
		Epochs  int     `yaml:"epochs"`
		LRDecay float64 `yaml:"lr_decay"`
	} `yaml:"training"`
	Bars struct {
		Source       string `yaml:"source"` // POSTGRES, BRIDGE or STATIC
		BridgeURL    string `yaml:"bridge_url"`
		Lookback     int    `yaml:"lookback"`
		MinBars      int    `yaml:"min_bars"`
		CacheSeconds int    `yaml:"cache_seconds"`
	} `yaml:"bars"`
	News struct {
		Source         string `yaml:"source"` // POSTGRES, SCRAPER or NONE
		MaxItems       int    `yaml:"max_items"`
		LookbackHours  int    `yaml:"lookback_hours"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheMinutes   int    `yaml:"cache_minutes"`
	} `yaml:"news"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Redis struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
		DB      int    `yaml:"db"`
	} `yaml:"redis"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if c.Risk.PerTradeRisk <= 0 || c.Risk.PerTradeRisk > 1 {
		return fmt.Errorf("risk.per_trade_risk must be in (0, 1], got %.4f", c.Risk.PerTradeRisk)
	}
	if c.Risk.MaxLot <= 0 {
		return fmt.Errorf("risk.max_lot must be positive, got %.4f", c.Risk.MaxLot)
	}
	if c.Training.Window <= 0 || c.Training.Horizon <= 0 {
		return fmt.Errorf("training.window and training.horizon must be positive")
	}
	if c.Training.MinBars < c.Training.Window+c.Training.Horizon {
		return fmt.Errorf("training.min_bars (%d) must cover window+horizon (%d)",
			c.Training.MinBars, c.Training.Window+c.Training.Horizon)
	}
	switch c.Bars.Source {
	case "POSTGRES", "BRIDGE", "STATIC":
	default:
		return fmt.Errorf("bars.source must be 'POSTGRES', 'BRIDGE' or 'STATIC', got '%s'", c.Bars.Source)
	}
	switch c.News.Source {
	case "POSTGRES", "SCRAPER", "NONE":
	default:
		return fmt.Errorf("news.source must be 'POSTGRES', 'SCRAPER' or 'NONE', got '%s'", c.News.Source)
	}
	if (c.Bars.Source == "POSTGRES" || c.News.Source == "POSTGRES") && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when a POSTGRES source is selected")
	}
	if c.Bars.Source == "BRIDGE" && c.Bars.BridgeURL == "" {
		return fmt.Errorf("bars.bridge_url is required when bars.source is 'BRIDGE'")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Symbol == "" {
		c.Symbol = "XAUUSD"
	}
	if c.Timeframe == "" {
		c.Timeframe = "M5"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Model.DefaultID == "" {
		c.Model.DefaultID = "hrm_scalping_v1"
	}
	if c.Risk.AccountBalance == 0 {
		c.Risk.AccountBalance = 1000
	}
	if c.Risk.PerTradeRisk == 0 {
		c.Risk.PerTradeRisk = 0.02
	}
	if c.Risk.MaxLot == 0 {
		c.Risk.MaxLot = 1.0
	}
	if c.Risk.SignalExpiryMinutes == 0 {
		c.Risk.SignalExpiryMinutes = 15
	}
	if c.Training.Window == 0 {
		c.Training.Window = 50
	}
	if c.Training.Horizon == 0 {
		c.Training.Horizon = 10
	}
	if c.Training.MinBars == 0 {
		c.Training.MinBars = 100
	}
	if c.Training.MaxBars == 0 {
		c.Training.MaxBars = 1000
	}
	if c.Training.Epochs == 0 {
		c.Training.Epochs = 50
	}
	if c.Training.LRDecay == 0 {
		c.Training.LRDecay = 0.995
	}
	if c.Bars.Source == "" {
		c.Bars.Source = "STATIC"
	}
	if c.Bars.Lookback == 0 {
		c.Bars.Lookback = 100
	}
	if c.Bars.MinBars == 0 {
		c.Bars.MinBars = 50
	}
	if c.News.Source == "" {
		c.News.Source = "NONE"
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 10
	}
	if c.News.LookbackHours == 0 {
		c.News.LookbackHours = 24
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
