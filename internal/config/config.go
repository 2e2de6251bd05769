package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/simaogato/tradeledger-backend/internal/domain"
)

// Ledger store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the process configuration, read from the environment
type Config struct {
	LedgerDriver string `env:"LEDGER_DRIVER" envDefault:"sqlite"`

	// Postgres. DB_CONN_STR wins over the individual fields when set.
	DBConnStr  string `env:"DB_CONN_STR"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"tradeledger"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"tradeledger.db"`

	GRPCAddr string `env:"GRPC_ADDR" envDefault:":8080"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8081"`
	APIToken string `env:"API_TOKEN" envDefault:"dev-token"`

	// CORSAllowedOrigins enables CORS on the HTTP API for these origins
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// CollationLocale is the BCP 47 tag used to order text columns
	CollationLocale string `env:"COLLATION_LOCALE" envDefault:"en"`

	// Stakeholders lists id:ratio pairs, e.g. "alice:0.5,bob:0.5"
	Stakeholders string `env:"STAKEHOLDERS"`
}

// Load parses the environment into a Config and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.LedgerDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid LEDGER_DRIVER %q: must be postgres, sqlite or memory", c.LedgerDriver)
	}
	if _, err := c.Locale(); err != nil {
		return err
	}
	if _, err := c.Profiles(); err != nil {
		return err
	}
	return nil
}

// PostgresConnString returns DB_CONN_STR or builds one from the individual fields
func (c *Config) PostgresConnString() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Locale returns the collation language tag
func (c *Config) Locale() (language.Tag, error) {
	tag, err := language.Parse(c.CollationLocale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid COLLATION_LOCALE %q: %w", c.CollationLocale, err)
	}
	return tag, nil
}

// Profiles parses STAKEHOLDERS. An empty value yields no profiles.
func (c *Config) Profiles() ([]domain.StakeholderProfile, error) {
	var profiles []domain.StakeholderProfile
	seen := make(map[domain.StakeholderID]bool)

	for _, pair := range strings.Split(c.Stakeholders, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, ratio, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid STAKEHOLDERS entry %q: want id:ratio", pair)
		}
		r, err := decimal.NewFromString(strings.TrimSpace(ratio))
		if err != nil {
			return nil, fmt.Errorf("invalid STAKEHOLDERS ratio %q: %w", ratio, err)
		}
		p := domain.StakeholderProfile{ID: domain.StakeholderID(strings.TrimSpace(id)), ProfitShareRatio: r}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid STAKEHOLDERS entry %q: %w", pair, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate stakeholder %q in STAKEHOLDERS", p.ID)
		}
		seen[p.ID] = true
		profiles = append(profiles, p)
	}

	return profiles, nil
}
