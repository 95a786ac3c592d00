package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	RazorpayKeyID  string
	RazorpaySecret string
	AdminPanelURL  string
	AllowedOrigins []string
	ShippingFee    decimal.Decimal
	KafkaBrokers   []string
	KafkaTopic     string
	LogLevel       string
}

// LoadEnv loads environment variables from a .env file
func LoadEnv(logger zerolog.Logger) {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Msg("no .env file loaded, using process environment")
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// Load reads the process environment into a Config. Payment credentials are
// mandatory; the server must not start without them.
func Load() (*Config, error) {
	fee, err := decimal.NewFromString(GetEnv("SHIPPING_FEE", "0"))
	if err != nil {
		return nil, fmt.Errorf("parse SHIPPING_FEE: %w", err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("SHIPPING_FEE must not be negative, got %s", fee)
	}

	cfg := &Config{
		Port:           GetEnv("PORT", "5000"),
		MongoURI:       GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  GetEnv("MONGODB_DATABASE", "craftcrazy"),
		RazorpayKeyID:  os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET_KEY"),
		AdminPanelURL:  strings.TrimRight(os.Getenv("ADMIN_PANEL_URL"), "/"),
		AllowedOrigins: splitList(GetEnv("ALLOWED_ORIGINS", "*")),
		ShippingFee:    fee,
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     GetEnv("KAFKA_TOPIC", "craftcrazy-events"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}

	if cfg.RazorpayKeyID == "" || cfg.RazorpaySecret == "" {
		return nil, fmt.Errorf("%w: RAZORPAY_KEY_ID and RAZORPAY_SECRET_KEY", ErrMissingConfig)
	}
	return cfg, nil
}

// NewLogger builds the root logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "craftcrazy").Logger()
}

// ListenAddr returns the listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	if _, err := strconv.Atoi(c.Port); err == nil {
		return ":" + c.Port
	}
	return c.Port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
