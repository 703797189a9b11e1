package config

import (
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
	Catalog     CatalogConfig  `mapstructure:"catalog"`
	Upstream    UpstreamConfig `mapstructure:"upstream"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Wallet      WalletConfig   `mapstructure:"wallet"`
	Sessions    SessionsConfig `mapstructure:"sessions"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`
	SlowThreshold   time.Duration `mapstructure:"slowThreshold"`
	SeedAccounts    bool          `mapstructure:"seedAccounts"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// LedgerConfig contains the runner transfer limits. Amounts are decimal strings.
type LedgerConfig struct {
	RunnerPerTransfer string `mapstructure:"runnerPerTransfer"`
	PerRecipientDaily string `mapstructure:"perRecipientDaily"`
	RunnerDailyTotal  string `mapstructure:"runnerDailyTotal"`
	// Timezone is the IANA zone whose midnight starts a new cap day; empty means server local time
	Timezone string `mapstructure:"timezone"`
}

// CatalogConfig contains game catalog synchronization settings
type CatalogConfig struct {
	ImagePlaceholders []string      `mapstructure:"imagePlaceholders"`
	DefaultImageStyle string        `mapstructure:"defaultImageStyle"`
	CDNURL            string        `mapstructure:"cdnUrl"`
	Prune             bool          `mapstructure:"prune"`
	SyncTimeout       time.Duration `mapstructure:"syncTimeout"`
}

// UpstreamConfig contains the games API client settings
type UpstreamConfig struct {
	BaseURL    string        `mapstructure:"baseUrl"`
	Hall       string        `mapstructure:"hall"`
	Key        string        `mapstructure:"key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retryDelay"`
	CacheTTL   time.Duration `mapstructure:"cacheTTL"`
}

// RedisConfig contains the response cache connection settings
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// WalletConfig contains the provider wallet callback settings
type WalletConfig struct {
	Secret           string  `mapstructure:"secret"`
	RequireSignature bool    `mapstructure:"requireSignature"`
	RateLimit        float64 `mapstructure:"rateLimit"` // requests per second per client IP
	RateBurst        int     `mapstructure:"rateBurst"`
}

// SessionsConfig contains the game session sweeper settings
type SessionsConfig struct {
	SweepSchedule string        `mapstructure:"sweepSchedule"`
	StaleAfter    time.Duration `mapstructure:"staleAfter"`
}

// Location resolves the configured ledger timezone
func (c LedgerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Address returns the host:port the HTTP server listens on
func (c ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
