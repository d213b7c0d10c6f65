// Package config loads service settings from the environment (and a .env
// file when present) through viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

type DynamoDBConfig struct {
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	CampaignsTable    string
	IntentsTable      string
	CorrelationsTable string
	DonationsTable    string
}

type MpesaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	ShortCode      string
	CallbackURL    string
	Environment    string
	BaseURL        string
}

type Config struct {
	HTTPPort      string
	LedgerBackend string
	DatabaseURL   string
	DynamoDB      DynamoDBConfig
	RedisURL      string

	RateLimitWindow   time.Duration
	RateLimitMax      int
	DonationMinAmount int64
	DonationMaxAmount int64

	GatewayTimeout     time.Duration
	GatewayRPS         float64
	Mpesa              MpesaConfig
	PaymentGatewayMock bool

	IntentTimeout       time.Duration
	ExpirySweepSchedule string

	CallbackToken        string
	CallbackAllowedCIDRs []*net.IPNet
	// TrustedProxies lists proxies whose X-Forwarded-For is honoured when
	// resolving client addresses. Empty means the socket address is used.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LEDGER_BACKEND", BackendPostgres)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("CAMPAIGNS_TABLE", "campaigns")
	v.SetDefault("INTENTS_TABLE", "payment_intents")
	v.SetDefault("CORRELATIONS_TABLE", "payment_correlations")
	v.SetDefault("DONATIONS_TABLE", "donations")
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")
	v.SetDefault("RATE_LIMIT_MAX", 10)
	v.SetDefault("DONATION_MIN_AMOUNT", 100)
	v.SetDefault("DONATION_MAX_AMOUNT", 1_000_000)
	v.SetDefault("GATEWAY_TIMEOUT", "15s")
	v.SetDefault("GATEWAY_RPS", 5)
	v.SetDefault("MPESA_ENV", "sandbox")
	v.SetDefault("INTENT_TIMEOUT", "5m")
	v.SetDefault("EXPIRY_SWEEP_SCHEDULE", "@every 1m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadFrom(v)
}

// LoadFrom builds a Config from v after applying defaults.
func LoadFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)

	cfg := Config{
		HTTPPort:      v.GetString("HTTP_PORT"),
		LedgerBackend: strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_BACKEND"))),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DynamoDB: DynamoDBConfig{
			Region:            v.GetString("AWS_REGION"),
			Endpoint:          v.GetString("DYNAMODB_ENDPOINT"),
			AccessKeyID:       v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
			CampaignsTable:    v.GetString("CAMPAIGNS_TABLE"),
			IntentsTable:      v.GetString("INTENTS_TABLE"),
			CorrelationsTable: v.GetString("CORRELATIONS_TABLE"),
			DonationsTable:    v.GetString("DONATIONS_TABLE"),
		},
		RedisURL: v.GetString("REDIS_URL"),

		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		RateLimitMax:      v.GetInt("RATE_LIMIT_MAX"),
		DonationMinAmount: v.GetInt64("DONATION_MIN_AMOUNT"),
		DonationMaxAmount: v.GetInt64("DONATION_MAX_AMOUNT"),

		GatewayTimeout: v.GetDuration("GATEWAY_TIMEOUT"),
		GatewayRPS:     v.GetFloat64("GATEWAY_RPS"),
		Mpesa: MpesaConfig{
			ConsumerKey:    v.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: v.GetString("MPESA_CONSUMER_SECRET"),
			Passkey:        v.GetString("MPESA_PASSKEY"),
			ShortCode:      v.GetString("MPESA_SHORTCODE"),
			CallbackURL:    v.GetString("MPESA_CALLBACK_URL"),
			Environment:    v.GetString("MPESA_ENV"),
			BaseURL:        v.GetString("MPESA_BASE_URL"),
		},
		PaymentGatewayMock: isEnabled(v.GetString("PAYMENT_GATEWAY_MOCK")) || isEnabled(v.GetString("MPESA_MOCK")),

		IntentTimeout:       v.GetDuration("INTENT_TIMEOUT"),
		ExpirySweepSchedule: v.GetString("EXPIRY_SWEEP_SCHEDULE"),

		CallbackToken:  v.GetString("CALLBACK_TOKEN"),
		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	cidrs, err := parseCIDRs(v.GetString("CALLBACK_ALLOWED_CIDRS"))
	if err != nil {
		return Config{}, err
	}
	cfg.CallbackAllowedCIDRs = cidrs

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.LedgerBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when LEDGER_BACKEND=postgres"))
		}
	case BackendDynamoDB, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend))
	}
	if c.DonationMinAmount <= 0 || c.DonationMaxAmount < c.DonationMinAmount {
		errs = append(errs, fmt.Errorf("invalid donation bounds: min=%d max=%d", c.DonationMinAmount, c.DonationMaxAmount))
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.IntentTimeout <= 0 {
		errs = append(errs, errors.New("INTENT_TIMEOUT must be positive"))
	}
	if _, err := cron.ParseStandard(c.ExpirySweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid EXPIRY_SWEEP_SCHEDULE: %w", err))
	}
	return errors.Join(errs...)
}

func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			if ip := net.ParseIP(part); ip != nil && ip.To4() != nil {
				part += "/32"
			} else {
				part += "/128"
			}
		}
		_, n, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("invalid CALLBACK_ALLOWED_CIDRS entry %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
