package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "smc"
dbname = "booking"

[auth]
jwt_secret = "from-file"

[booking]
slot_step_minutes = 15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 15, cfg.Booking.PreparationBufferMin)
	assert.Equal(t, 60, cfg.Booking.DefaultServiceDuration)
	assert.Equal(t, 5, cfg.Loyalty.IndividualThreshold)
	assert.Equal(t, 3, cfg.Loyalty.PackageThreshold)
	assert.Equal(t, int64(2000), cfg.Loyalty.IndividualDiscount)
	assert.Equal(t, "host=db port=5432 user=smc password= dbname=booking sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "whsec_test", cfg.Gateways.Stripe.WebhookSecret)
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "[server]\nhttp_port = 8080\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
