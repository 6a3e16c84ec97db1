package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/complaints")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "Complaint System <noreply@example.com>")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
}

func TestLoadWithRequiredEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "admin@example.com", cfg.Notification.AdminEmail)
	assert.False(t, cfg.Complaint.StrictTransitions)
	assert.Equal(t, 10, cfg.Throttle.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Throttle.Window())
	assert.False(t, cfg.App.IsProduction())
}

// Secrets and transport settings have no insecure fallbacks; startup fails
// when any of them is absent.
func TestLoadFailsFastWhenSecretsMissing(t *testing.T) {
	required := []string{"AUTH_JWT_SECRET", "POSTGRES_DSN", "SMTP_HOST", "SMTP_FROM", "ADMIN_EMAIL"}

	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("COMPLAINT_STRICT_TRANSITIONS", "true")
	t.Setenv("AUTH_SESSION_TTL_DAYS", "1")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.Complaint.StrictTransitions)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 3, cfg.Throttle.MaxAttempts)
}
