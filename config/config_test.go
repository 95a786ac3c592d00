package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRazorpay(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRazorpay(t)
	for _, k := range []string{"PORT", "SHIPPING_FEE", "KAFKA_BROKERS", "ADMIN_PANEL_URL", "ALLOWED_ORIGINS", "MONGODB_DATABASE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ListenAddr())
	assert.Equal(t, "craftcrazy", cfg.MongoDatabase)
	assert.True(t, cfg.ShippingFee.IsZero())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "craftcrazy-events", cfg.KafkaTopic)
}

func TestLoad_Overrides(t *testing.T) {
	setRazorpay(t)
	t.Setenv("PORT", "127.0.0.1:8080")
	t.Setenv("SHIPPING_FEE", "49.50")
	t.Setenv("ADMIN_PANEL_URL", "https://admin.craftcrazy.in/")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Equal(t, "49.5", cfg.ShippingFee.String())
	assert.Equal(t, "https://admin.craftcrazy.in", cfg.AdminPanelURL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing razorpay", func(t *testing.T) {
		t.Setenv("RAZORPAY_KEY_ID", "")
		t.Setenv("RAZORPAY_SECRET_KEY", "secret")
		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("negative fee", func(t *testing.T) {
		setRazorpay(t)
		t.Setenv("SHIPPING_FEE", "-1")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unparsable fee", func(t *testing.T) {
		setRazorpay(t)
		t.Setenv("SHIPPING_FEE", "one rupee")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "WARN")

	logger.Info().Msg("hidden")
	logger.Warn().Str("order_id", "abc").Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "craftcrazy", line["service"])
	assert.Equal(t, "abc", line["order_id"])

	buf.Reset()
	fallback := NewLogger(&buf, "nonsense")
	fallback.Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")
}
