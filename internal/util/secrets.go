package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderYahoo        = "yahoo"
	ProviderYahooSdk     = "yahoo-sdk"
	ProviderAlphaVantage = "alphavantage"
	ProviderAlpaca       = "alpaca"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
)

type Secrets struct {
	Port      int              `json:"port" yaml:"port"`
	Providers ProviderSecrets  `json:"providers" yaml:"providers"`
	Cache     CacheSecrets     `json:"cache" yaml:"cache"`
	Optimizer OptimizerSecrets `json:"optimizer" yaml:"optimizer"`
	Refresh   RefreshSecrets   `json:"refresh" yaml:"refresh"`
	Db        DbSecrets        `json:"db" yaml:"db"`
}

type ProviderSecrets struct {
	// Quotes is the fallback order used for price series
	Quotes []string `json:"quotes" yaml:"quotes"`
	// Validator is the single provider used for ticker validation
	Validator    string             `json:"validator" yaml:"validator"`
	Timeout      string             `json:"timeout" yaml:"timeout"`
	Yahoo        YahooSecrets       `json:"yahoo" yaml:"yahoo"`
	AlphaVantage AlphaVantageSecret `json:"alphaVantage" yaml:"alphaVantage"`
	Alpaca       AlpacaSecrets      `json:"alpaca" yaml:"alpaca"`
}

type YahooSecrets struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

type AlphaVantageSecret struct {
	ApiKey  string `json:"apiKey" yaml:"apiKey"`
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

type AlpacaSecrets struct {
	ApiKey    string `json:"apiKey" yaml:"apiKey"`
	ApiSecret string `json:"apiSecret" yaml:"apiSecret"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
}

type CacheSecrets struct {
	TTL            string `json:"ttl" yaml:"ttl"`
	MaxEntries     int    `json:"maxEntries" yaml:"maxEntries"`
	Range          string `json:"range" yaml:"range"`
	Interval       string `json:"interval" yaml:"interval"`
	ValidateOnMiss bool   `json:"validateOnMiss" yaml:"validateOnMiss"`
	Store          string `json:"store" yaml:"store"`
	SqlitePath     string `json:"sqlitePath" yaml:"sqlitePath"`
}

type OptimizerSecrets struct {
	Host        string `json:"host" yaml:"host"`
	Timeout     string `json:"timeout" yaml:"timeout"`
	Renormalize bool   `json:"renormalize" yaml:"renormalize"`
}

type RefreshSecrets struct {
	Cron      string   `json:"cron" yaml:"cron"`
	Watchlist []string `json:"watchlist" yaml:"watchlist"`
	Workers   int      `json:"workers" yaml:"workers"`
}

type DbSecrets struct {
	Host      string `json:"host" yaml:"host"`
	User      string `json:"user" yaml:"user"`
	Port      string `json:"port" yaml:"port"`
	Password  string `json:"password" yaml:"password"`
	Database  string `json:"database" yaml:"database"`
	EnableSsl bool   `json:"enableSsl" yaml:"enableSsl"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func secretsPath() string {
	if p := os.Getenv("PORTFOLIO_SECRETS"); p != "" {
		return p
	}
	switch strings.ToLower(os.Getenv("PORTFOLIO_ENV")) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	return "/go/src/app/secrets.json"
}

func LoadSecrets() (*Secrets, error) {
	return LoadSecretsFromFile(secretsPath())
}

// LoadSecretsFromFile reads json or yaml (by extension), applies env
// overrides and defaults, then validates
func LoadSecretsFromFile(secretsFile string) (*Secrets, error) {
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	switch strings.ToLower(filepath.Ext(secretsFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(f, &secrets)
	default:
		err = json.Unmarshal(f, &secrets)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", secretsFile, err)
	}

	secrets.applyEnvOverrides()
	secrets.applyDefaults()

	if err := secrets.Validate(); err != nil {
		return nil, fmt.Errorf("invalid secrets in %s: %w", secretsFile, err)
	}

	return &secrets, nil
}

func (s *Secrets) applyEnvOverrides() {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		s.Providers.AlphaVantage.ApiKey = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		s.Providers.Alpaca.ApiKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		s.Providers.Alpaca.ApiSecret = v
	}
	if v := os.Getenv("OPTIMIZER_HOST"); v != "" {
		s.Optimizer.Host = v
	}
}

func (s *Secrets) applyDefaults() {
	if s.Port == 0 {
		s.Port = 3001
	}
	if len(s.Providers.Quotes) == 0 {
		s.Providers.Quotes = []string{ProviderYahoo}
	}
	if s.Providers.Validator == "" {
		s.Providers.Validator = ProviderAlphaVantage
	}
	if s.Providers.Timeout == "" {
		s.Providers.Timeout = "30s"
	}
	if s.Cache.TTL == "" {
		s.Cache.TTL = "24h"
	}
	if s.Cache.MaxEntries == 0 {
		s.Cache.MaxEntries = 1024
	}
	if s.Cache.Range == "" {
		s.Cache.Range = "1y"
	}
	if s.Cache.Interval == "" {
		s.Cache.Interval = "1d"
	}
	if s.Cache.Store == "" {
		s.Cache.Store = StoreMemory
	}
	if s.Optimizer.Timeout == "" {
		s.Optimizer.Timeout = "60s"
	}
	if s.Refresh.Workers == 0 {
		s.Refresh.Workers = 10
	}
}

func (s Secrets) Validate() error {
	known := map[string]bool{
		ProviderYahoo:        true,
		ProviderYahooSdk:     true,
		ProviderAlphaVantage: true,
		ProviderAlpaca:       true,
	}
	for _, p := range append([]string{s.Providers.Validator}, s.Providers.Quotes...) {
		if !known[p] {
			return fmt.Errorf("unknown provider %q", p)
		}
		if p == ProviderAlphaVantage && s.Providers.AlphaVantage.ApiKey == "" {
			return fmt.Errorf("provider %s requires an api key", p)
		}
		if p == ProviderAlpaca && (s.Providers.Alpaca.ApiKey == "" || s.Providers.Alpaca.ApiSecret == "") {
			return fmt.Errorf("provider %s requires an api key and secret", p)
		}
	}

	for name, d := range map[string]string{
		"providers.timeout": s.Providers.Timeout,
		"cache.ttl":         s.Cache.TTL,
		"optimizer.timeout": s.Optimizer.Timeout,
	} {
		v, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if s.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.maxEntries must be positive, got %d", s.Cache.MaxEntries)
	}

	switch s.Cache.Store {
	case StoreMemory, StorePostgres:
	case StoreSqlite:
		if s.Cache.SqlitePath == "" {
			return fmt.Errorf("cache.sqlitePath is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown cache store %q", s.Cache.Store)
	}

	return nil
}

// Durations below are validated in Validate, so parse errors are ignored

func (s Secrets) ProviderTimeout() time.Duration {
	d, _ := time.ParseDuration(s.Providers.Timeout)
	return d
}

func (s Secrets) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(s.Cache.TTL)
	return d
}

func (s Secrets) OptimizerTimeout() time.Duration {
	d, _ := time.ParseDuration(s.Optimizer.Timeout)
	return d
}
