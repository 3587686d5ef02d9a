package journal

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg ClientConfig
	cfg.setDefaults()

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "data/journal.db", cfg.StatePath)
	assert.Equal(t, 2, cfg.ReadRetries)
	assert.Equal(t, time.Minute, cfg.PostsStaleTime)
	assert.Equal(t, 2*time.Minute, cfg.ProfileStaleTime)
	assert.Equal(t, 5*time.Minute, cfg.SiteStaleTime)
	assert.Equal(t, 5*time.Minute, cfg.UserStaleTime)
	assert.Equal(t, 5, cfg.LoginAttempts)
	require.NoError(t, cfg.Validate())
}

func TestConfigNegativeRetriesDisable(t *testing.T) {
	cfg := ClientConfig{ReadRetries: -1}
	cfg.setDefaults()
	assert.Equal(t, 0, cfg.ReadRetries)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{"bad scheme", ClientConfig{APIURL: "ftp://example.com/api"}},
		{"no host", ClientConfig{APIURL: "http:///api"}},
		{"bad level", ClientConfig{LogLevel: "loud"}},
		{"negative timeout", ClientConfig{RequestTimeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.setDefaults()
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JOURNAL_API_URL", "https://api.example.com/api/v1/")
	t.Setenv("JOURNAL_SITE_URL", "https://example.com/")
	t.Setenv("JOURNAL_STATE_PATH", "")
	t.Setenv("JOURNAL_LOG_LEVEL", "debug")
	t.Setenv("JOURNAL_REQUEST_TIMEOUT", "7s")
	t.Setenv("JOURNAL_READ_RETRIES", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, "https://example.com", cfg.SiteURL)
	assert.Equal(t, "data/journal.db", cfg.StatePath)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.ReadRetries, "0 in the environment disables retries")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("JOURNAL_REQUEST_TIMEOUT", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, log.DEBUG, NewLogger("DEBUG").Level())
	assert.Equal(t, log.OFF, NewLogger("off").Level())
	assert.Equal(t, log.INFO, NewLogger("nonsense").Level())
}

func TestEnvOr(t *testing.T) {
	t.Setenv("JOURNAL_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOr("JOURNAL_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", EnvOr("JOURNAL_TEST_UNSET_VALUE", "fallback"))
}
