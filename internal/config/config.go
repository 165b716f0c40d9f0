// Package config loads application settings from the environment,
// an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string           `yaml:"env"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	SportsData SportsDataConfig `yaml:"sports_data"`
	PayPal     PayPalConfig     `yaml:"paypal"`
	Stripe     StripeConfig     `yaml:"stripe"`
	Deposits   DepositConfig    `yaml:"deposits"`
	GameCache  GameCacheConfig  `yaml:"game_cache"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	AllowOrigins string        `yaml:"allow_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret        string        `yaml:"secret"`
	RefreshSecret string        `yaml:"refresh_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
}

type SportsDataConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

type PayPalConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

// DepositConfig bounds the amounts accepted into the balance ledger.
type DepositConfig struct {
	Currency  string        `yaml:"currency"`
	MinAmount string        `yaml:"min_amount"`
	MaxAmount string        `yaml:"max_amount"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

type GameCacheConfig struct {
	FinalTTL     time.Duration `yaml:"final_ttl"`
	LiveTTL      time.Duration `yaml:"live_ttl"`
	ScheduledTTL time.Duration `yaml:"scheduled_ttl"`
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", EnvLocal) == EnvProd
}

// Load builds the configuration. Values from CONFIG_FILE are applied first,
// environment variables fill whatever the file left empty, and defaults fill
// the rest.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML config file and expands ${VAR} references.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Env, "ENV")

	setInt(&c.Server.Port, "PORT")
	setString(&c.Server.AllowOrigins, "CORS_ALLOW_ORIGINS")

	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setInt(&c.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setInt(&c.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setDuration(&c.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME")
	setDuration(&c.Database.ConnMaxIdleTime, "DB_CONN_MAX_IDLE_TIME")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.JWT.RefreshSecret, "REFRESH_SECRET")

	setString(&c.SportsData.BaseURL, "SPORTSDATA_BASE_URL")
	setString(&c.SportsData.APIKey, "SPORTSDATA_API_KEY")
	setDuration(&c.SportsData.Timeout, "SPORTSDATA_TIMEOUT")
	setInt(&c.SportsData.MaxRetries, "SPORTSDATA_MAX_RETRIES")

	setString(&c.PayPal.ClientID, "PAYPAL_CLIENT_ID")
	setString(&c.PayPal.ClientSecret, "PAYPAL_CLIENT_SECRET")
	setString(&c.PayPal.BaseURL, "PAYPAL_BASE_URL")

	setString(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")

	setString(&c.Deposits.Currency, "DEPOSIT_CURRENCY")
	setString(&c.Deposits.MinAmount, "DEPOSIT_MIN_AMOUNT")
	setString(&c.Deposits.MaxAmount, "DEPOSIT_MAX_AMOUNT")
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = EnvLocal
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.AllowOrigins == "" {
		c.Server.AllowOrigins = "http://localhost:3001"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Password == "" {
		c.Database.Password = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "gridiron"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 100
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}

	if c.JWT.Secret == "" && c.Env != EnvProd {
		c.JWT.Secret = "gridiron-dev-secret"
	}
	if c.JWT.RefreshSecret == "" && c.Env != EnvProd && c.JWT.Secret != "" {
		c.JWT.RefreshSecret = c.JWT.Secret + ":refresh"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 7 * 24 * time.Hour
	}

	if c.SportsData.BaseURL == "" {
		c.SportsData.BaseURL = "https://api.sportsdata.io/v3/nfl"
	}
	if c.SportsData.Timeout == 0 {
		c.SportsData.Timeout = 10 * time.Second
	}
	if c.SportsData.MaxRetries == 0 {
		c.SportsData.MaxRetries = 2
	}

	if c.PayPal.BaseURL == "" {
		c.PayPal.BaseURL = "https://api-m.sandbox.paypal.com"
	}

	if c.Deposits.Currency == "" {
		c.Deposits.Currency = "USD"
	}
	if c.Deposits.MinAmount == "" {
		c.Deposits.MinAmount = "1.00"
	}
	if c.Deposits.MaxAmount == "" {
		c.Deposits.MaxAmount = "5000.00"
	}
	if c.Deposits.LockTTL == 0 {
		c.Deposits.LockTTL = 30 * time.Second
	}

	if c.GameCache.FinalTTL == 0 {
		c.GameCache.FinalTTL = 24 * time.Hour
	}
	if c.GameCache.LiveTTL == 0 {
		c.GameCache.LiveTTL = 30 * time.Second
	}
	if c.GameCache.ScheduledTTL == 0 {
		c.GameCache.ScheduledTTL = 5 * time.Minute
	}
}

// Validate checks that required fields are set and values are consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Env == EnvProd {
		if c.JWT.RefreshSecret == "" {
			return errors.New("jwt.refresh_secret is required in prod")
		}
		if c.JWT.RefreshSecret == c.JWT.Secret {
			return errors.New("jwt.refresh_secret must differ from jwt.secret")
		}
	}

	minAmount, maxAmount, err := c.Deposits.Bounds()
	if err != nil {
		return err
	}
	if minAmount.IsNegative() {
		return errors.New("deposits.min_amount must not be negative")
	}
	if minAmount.GreaterThan(maxAmount) {
		return fmt.Errorf("deposits.min_amount (%s) cannot exceed max_amount (%s)", minAmount, maxAmount)
	}
	return nil
}

// Bounds parses the configured deposit limits.
func (d DepositConfig) Bounds() (decimal.Decimal, decimal.Decimal, error) {
	minAmount, err := decimal.NewFromString(d.MinAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("deposits.min_amount: %w", err)
	}
	maxAmount, err := decimal.NewFromString(d.MaxAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("deposits.max_amount: %w", err)
	}
	return minAmount, maxAmount, nil
}

// DSN returns the postgres connection string for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Addr returns host:port for the redis client.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

func setString(dst *string, key string) {
	if *dst == "" {
		*dst = GetEnv(key, "")
	}
}

func setInt(dst *int, key string) {
	if *dst == 0 {
		*dst = GetIntEnv(key, 0)
	}
}

func setDuration(dst *time.Duration, key string) {
	if *dst == 0 {
		*dst = GetDurationEnv(key, 0)
	}
}
