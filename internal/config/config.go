package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Booking   BookingConfig   `toml:"booking"`
	Loyalty   LoyaltyConfig   `toml:"loyalty"`
	Gateways  GatewaysConfig  `toml:"gateways"`
	Redis     RedisConfig     `toml:"redis"`
	Kafka     KafkaConfig     `toml:"kafka"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// BookingConfig scheduling constants
type BookingConfig struct {
	SlotStepMinutes        int    `toml:"slot_step_minutes"`
	PreparationBufferMin   int    `toml:"preparation_buffer_minutes"`
	DefaultServiceDuration int    `toml:"default_service_duration_minutes"`
	Currency               string `toml:"currency"`
	Timezone               string `toml:"timezone"`
}

// LoyaltyConfig redemption rules. Discounts are in cents.
type LoyaltyConfig struct {
	IndividualThreshold int   `toml:"individual_threshold"`
	PackageThreshold    int   `toml:"package_threshold"`
	IndividualDiscount  int64 `toml:"individual_discount_cents"`
	PackageDiscount     int64 `toml:"package_discount_cents"`
}

type GatewaysConfig struct {
	Stripe StripeConfig `toml:"stripe"`
	PayPal PayPalConfig `toml:"paypal"`
	Mollie MollieConfig `toml:"mollie"`
	SumUp  SumUpConfig  `toml:"sumup"`
}

type StripeConfig struct {
	Enabled          bool   `toml:"enabled"`
	WebhookSecret    string `toml:"webhook_secret"`
	ToleranceSeconds int    `toml:"tolerance_seconds"`
}

type PayPalConfig struct {
	Enabled       bool   `toml:"enabled"`
	WebhookID     string `toml:"webhook_id"`
	WebhookSecret string `toml:"webhook_secret"`
}

type MollieConfig struct {
	Enabled bool   `toml:"enabled"`
	APIURL  string `toml:"api_url"`
	APIKey  string `toml:"api_key"`
	Timeout int    `toml:"timeout"`
}

type SumUpConfig struct {
	Enabled       bool   `toml:"enabled"`
	WebhookSecret string `toml:"webhook_secret"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// ProcessedTTL seconds a processed webhook id is remembered
	ProcessedTTL int `toml:"processed_ttl"`
}

type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load reads .env (optional), the TOML file, then secrets from the environment
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "smc-bookingcore"},
		Booking: BookingConfig{
			SlotStepMinutes:        30,
			PreparationBufferMin:   15,
			DefaultServiceDuration: 60,
			Currency:               "EUR",
			Timezone:               "Europe/Paris",
		},
		Loyalty: LoyaltyConfig{
			IndividualThreshold: 5,
			PackageThreshold:    3,
			IndividualDiscount:  2000,
			PackageDiscount:     4000,
		},
		Gateways: GatewaysConfig{
			Stripe: StripeConfig{ToleranceSeconds: 300},
			Mollie: MollieConfig{APIURL: "https://api.mollie.com", Timeout: 5},
		},
		Redis:     RedisConfig{Addr: "localhost:6379", ProcessedTTL: 86400},
		Kafka:     KafkaConfig{Topic: "booking-ledger-events", WriteTimeout: 5},
		RateLimit: RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Gateways.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.Gateways.PayPal.WebhookSecret, "PAYPAL_WEBHOOK_SECRET")
	setString(&cfg.Gateways.Mollie.APIKey, "MOLLIE_API_KEY")
	setString(&cfg.Gateways.SumUp.WebhookSecret, "SUMUP_WEBHOOK_SECRET")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0:
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	case c.Booking.SlotStepMinutes <= 0:
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	case c.Booking.PreparationBufferMin < 0:
		return fmt.Errorf("%w: booking.preparation_buffer_minutes must not be negative", ErrInvalidConfig)
	case c.Booking.DefaultServiceDuration <= 0:
		return fmt.Errorf("%w: booking.default_service_duration_minutes must be positive", ErrInvalidConfig)
	case c.Loyalty.IndividualThreshold <= 0 || c.Loyalty.PackageThreshold <= 0:
		return fmt.Errorf("%w: loyalty thresholds must be positive", ErrInvalidConfig)
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	case c.Kafka.Enabled && len(c.Kafka.Brokers) == 0:
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	return nil
}
