package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// SearchURL is the Gdańsk "newest flats" results page.
const SearchURL = "https://www.morizon.pl/mieszkania/najnowsze/gdansk/"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL     string `env:"BASE_URL"`
	FiltersFile string `env:"FILTERS_FILE"`
	OutputPath  string `env:"OUTPUT_PATH" envDefault:"result.csv"`
	CacheDir    string `env:"CACHE_DIR" envDefault:"cached_pages"`

	ListingWorkers int           `env:"LISTING_WORKERS" envDefault:"8"`
	DetailWorkers  int           `env:"DETAIL_WORKERS" envDefault:"16"`
	ListingTimeout time.Duration `env:"LISTING_TIMEOUT" envDefault:"60s"`
	DetailTimeout  time.Duration `env:"DETAIL_TIMEOUT" envDefault:"300s"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimitMs    int           `env:"RATE_LIMIT_MS" envDefault:"0"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"1"`
	UserAgent      string        `env:"USER_AGENT"`
	FetchMode      string        `env:"FETCH_MODE" envDefault:"http"`
	ChromeBin      string        `env:"CHROME_BIN"`

	DateLanguage string `env:"DATE_LANGUAGE" envDefault:"pl"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	PostgresEnabled  bool   `env:"POSTGRES_ENABLED" envDefault:"false"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"scraper"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"scraper123"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"morizon"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// RateLimit returns the minimum spacing between live requests, zero for none.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitMs) * time.Millisecond
}

// StartURL returns the first results page to crawl. An explicit BASE_URL wins;
// otherwise the default search URL is combined with the filters from
// FILTERS_FILE, or with DefaultFilters when no file is set.
func (c *Config) StartURL() (string, error) {
	if c.BaseURL != "" {
		return c.BaseURL, nil
	}

	filters := DefaultFilters()
	if c.FiltersFile != "" {
		f, err := LoadFilters(c.FiltersFile)
		if err != nil {
			return "", err
		}
		filters = f
	}
	return SearchURL + "?" + filters.Query(), nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
