package journal

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// DefaultAPIURL is used when JOURNAL_API_URL is not set.
const DefaultAPIURL = "http://localhost:5000/api/v1"

// ClientConfig holds all configuration for a journal Client.
type ClientConfig struct {
	APIURL    string // Base URL of the REST API (default DefaultAPIURL)
	SiteURL   string // Public site URL used for feeds and share links (default "http://localhost:3000")
	StatePath string // SQLite path for the persisted session (default "data/journal.db")
	LogLevel  string // debug, info, warn, error or off (default "info")

	RequestTimeout time.Duration // Per-request timeout; zero leaves it to the network stack
	ReadRetries    int           // Extra attempts for failed reads (default 2, -1 disables)

	PostsStaleTime   time.Duration // default 60s
	ProfileStaleTime time.Duration // default 2min
	SiteStaleTime    time.Duration // default 5min
	UserStaleTime    time.Duration // default 5min

	LoginAttempts int           // Failed logins allowed per window (default 5)
	LoginWindow   time.Duration // default 1min
}

func (c *ClientConfig) setDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimSuffix(c.APIURL, "/")
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
	if c.StatePath == "" {
		c.StatePath = "data/journal.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch {
	case c.ReadRetries == 0:
		c.ReadRetries = 2
	case c.ReadRetries < 0:
		c.ReadRetries = 0
	}
	if c.PostsStaleTime == 0 {
		c.PostsStaleTime = time.Minute
	}
	if c.ProfileStaleTime == 0 {
		c.ProfileStaleTime = 2 * time.Minute
	}
	if c.SiteStaleTime == 0 {
		c.SiteStaleTime = 5 * time.Minute
	}
	if c.UserStaleTime == 0 {
		c.UserStaleTime = 5 * time.Minute
	}
	if c.LoginAttempts == 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
}

// Validate reports configuration that cannot work.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("JOURNAL_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("JOURNAL_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("JOURNAL_API_URL has no host: %q", c.APIURL)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("JOURNAL_LOG_LEVEL must be one of debug, info, warn, error, off; got %q", c.LogLevel)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("JOURNAL_REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

// LoadConfig builds a ClientConfig from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func LoadConfig() (ClientConfig, error) {
	_ = godotenv.Load()

	cfg := ClientConfig{
		APIURL:    os.Getenv("JOURNAL_API_URL"),
		SiteURL:   os.Getenv("JOURNAL_SITE_URL"),
		StatePath: os.Getenv("JOURNAL_STATE_PATH"),
		LogLevel:  os.Getenv("JOURNAL_LOG_LEVEL"),
	}
	if v := os.Getenv("JOURNAL_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("JOURNAL_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("JOURNAL_READ_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("JOURNAL_READ_RETRIES: %w", err)
		}
		if n == 0 {
			n = -1
		}
		cfg.ReadRetries = n
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// NewLogger returns the logger used across the client, set to level.
// Unknown levels fall back to info.
func NewLogger(level string) *log.Logger {
	l := log.New("journal")
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = log.INFO
	}
	l.SetLevel(lvl)
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	return l
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
