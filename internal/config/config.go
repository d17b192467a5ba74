package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "finance-go"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		PriceProvider string `yaml:"price_provider"`
		ChartURL      string `yaml:"chart_url"`
		TimeseriesURL string `yaml:"timeseries_url"`
	} `yaml:"data_source"`
	Pipeline struct {
		SymbolsFile  string        `yaml:"symbols_file"`
		SymbolColumn string        `yaml:"symbol_column"`
		Start        string        `yaml:"start"`
		End          string        `yaml:"end"`
		Delay        time.Duration `yaml:"delay"`
		Exclude      []string      `yaml:"exclude"`
	} `yaml:"pipeline"`
	Database struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Export struct {
		ClosingPricesCSV   string `yaml:"closing_prices_csv"`
		ClosingPricesTable string `yaml:"closing_prices_table"`
	} `yaml:"export"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Pipeline.Delay = -1

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SYMBOLS_FILE"); v != "" {
		cfg.Pipeline.SymbolsFile = v
	}
	if v := os.Getenv("EXCLUDE_SYMBOLS"); v != "" {
		cfg.Pipeline.Exclude = SplitList(v)
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		cfg.DataSource.PriceProvider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CLOSING_PRICES_CSV"); v != "" {
		cfg.Export.ClosingPricesCSV = v
	}

	// Defaults
	if cfg.DataSource.PriceProvider == "" {
		cfg.DataSource.PriceProvider = ProviderYahoo
	}
	if cfg.Pipeline.SymbolsFile == "" {
		cfg.Pipeline.SymbolsFile = "bist100.csv"
	}
	if cfg.Pipeline.Start == "" {
		cfg.Pipeline.Start = "2020-01-01"
	}
	if cfg.Pipeline.Delay < 0 {
		cfg.Pipeline.Delay = time.Second
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "finance_yahoo.db"
	}
	if cfg.Export.ClosingPricesTable == "" {
		cfg.Export.ClosingPricesTable = "stock_data"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "finance_yahoo.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 19 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	switch c.DataSource.PriceProvider {
	case ProviderYahoo, ProviderFinanceGo:
	default:
		return fmt.Errorf("data_source.price_provider must be %q or %q, got %q", ProviderYahoo, ProviderFinanceGo, c.DataSource.PriceProvider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether run notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
