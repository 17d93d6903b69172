package app

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	MSSQLServer      string        `envconfig:"MSSQL_SERVER" required:"true"`
	MSSQLPort        int           `envconfig:"MSSQL_PORT" default:"1433"`
	MSSQLDatabase    string        `envconfig:"MSSQL_DATABASE" required:"true"`
	MSSQLUsername    string        `envconfig:"MSSQL_USERNAME" required:"true"`
	MSSQLPassword    string        `envconfig:"MSSQL_PASSWORD" required:"true"`
	MSSQLEncrypt     string        `envconfig:"MSSQL_ENCRYPT" default:"disable"`
	MSSQLTrustCert   bool          `envconfig:"MSSQL_TRUST_SERVER_CERT" default:"true"`
	MSSQLDialTimeout time.Duration `envconfig:"MSSQL_DIAL_TIMEOUT" default:"15s"`

	RedisAddr   string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SnapshotTTL time.Duration `envconfig:"SNAPSHOT_TTL" default:"10m"`

	AmountPrecision int `envconfig:"AMOUNT_PRECISION" default:"3"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MSSQLServer == "" || cfg.MSSQLDatabase == "" {
		return nil, errors.New("mssql server and database must be provided")
	}
	if cfg.AmountPrecision != 2 && cfg.AmountPrecision != 3 {
		return nil, fmt.Errorf("amount precision must be 2 or 3, got %d", cfg.AmountPrecision)
	}
	return &cfg, nil
}

// MSSQLDSN builds the SQL Server connection string for the ledger
// database. Credentials go through url.UserPassword so reserved
// characters survive intact.
func (c *Config) MSSQLDSN() string {
	query := url.Values{}
	query.Set("database", c.MSSQLDatabase)
	query.Set("encrypt", c.MSSQLEncrypt)
	query.Set("TrustServerCertificate", strconv.FormatBool(c.MSSQLTrustCert))
	query.Set("dial timeout", strconv.Itoa(int(c.MSSQLDialTimeout.Seconds())))
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(c.MSSQLUsername, c.MSSQLPassword),
		Host:     fmt.Sprintf("%s:%d", c.MSSQLServer, c.MSSQLPort),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
