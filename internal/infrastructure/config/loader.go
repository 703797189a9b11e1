package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override, e.g. GP_DATABASE_HOST
const EnvPrefix = "GP"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// LoadConfig loads configuration for the environment named by GP_ENV
func LoadConfig() (*Config, error) {
	return Load(viper.New())
}

// Load reads configuration into v and decodes it. Callers may bind command
// line flags or extra config paths on v beforehand; bound values win over
// the file and environment.
func Load(v *viper.Viper) (*Config, error) {
	// .env is optional
	_ = loadDotEnvFile()

	env := getEnvironment()

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in the search paths
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return errors.New("no .env file found in search paths")
}

// setDefaults registers a default for every key so environment overrides are picked up
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.readHeaderTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "game_portal")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("database.connMaxIdleTime", 15*time.Minute)
	v.SetDefault("database.queryTimeout", 5*time.Second)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", time.Second)
	v.SetDefault("database.slowThreshold", 200*time.Millisecond)
	v.SetDefault("database.seedAccounts", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("ledger.runnerPerTransfer", "500.00")
	v.SetDefault("ledger.perRecipientDaily", "1000.00")
	v.SetDefault("ledger.runnerDailyTotal", "1000.00")
	v.SetDefault("ledger.timezone", "")

	v.SetDefault("catalog.imagePlaceholders", []string{"null", "undefined", "na"})
	v.SetDefault("catalog.defaultImageStyle", "game_img_2")
	v.SetDefault("catalog.cdnUrl", "")
	v.SetDefault("catalog.prune", false)
	v.SetDefault("catalog.syncTimeout", 5*time.Minute)

	v.SetDefault("upstream.baseUrl", "")
	v.SetDefault("upstream.hall", "")
	v.SetDefault("upstream.key", "")
	v.SetDefault("upstream.timeout", 20*time.Second)
	v.SetDefault("upstream.retries", 3)
	v.SetDefault("upstream.retryDelay", time.Second)
	v.SetDefault("upstream.cacheTTL", 60*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "gp:upstream:")

	v.SetDefault("wallet.secret", "")
	v.SetDefault("wallet.requireSignature", false)
	v.SetDefault("wallet.rateLimit", 50.0)
	v.SetDefault("wallet.rateBurst", 100)

	v.SetDefault("sessions.sweepSchedule", "@every 5m")
	v.SetDefault("sessions.staleAfter", 30*time.Minute)
}

// getEnvironment determines the environment to use based on GP_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// Validate checks cross-field constraints the decoder cannot express
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	for name, value := range map[string]string{
		"ledger.runnerPerTransfer": c.Ledger.RunnerPerTransfer,
		"ledger.perRecipientDaily": c.Ledger.PerRecipientDaily,
		"ledger.runnerDailyTotal":  c.Ledger.RunnerDailyTotal,
	} {
		amount, err := decimal.NewFromString(value)
		if err != nil || !amount.IsPositive() {
			return fmt.Errorf("%s must be a positive amount, got %q", name, value)
		}
	}
	if _, err := c.Ledger.Location(); err != nil {
		return fmt.Errorf("invalid ledger.timezone: %w", err)
	}

	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.Retries < 0 {
		return fmt.Errorf("upstream.retries must be non-negative, got: %d", c.Upstream.Retries)
	}
	if c.Upstream.CacheTTL < 0 {
		return errors.New("upstream.cacheTTL must be non-negative")
	}

	if c.Sessions.SweepSchedule == "" {
		return errors.New("sessions.sweepSchedule is required")
	}
	if c.Sessions.StaleAfter <= 0 {
		return errors.New("sessions.staleAfter must be positive")
	}

	if c.Wallet.RequireSignature && c.Wallet.Secret == "" {
		return errors.New("wallet.secret is required when wallet.requireSignature is set")
	}

	return nil
}
