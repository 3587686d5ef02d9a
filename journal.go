// Package journal is the client-side data and session layer for a personal
// blog API. It provides typed services for posts, the author profile, site
// banner settings and authentication, a keyed query cache with single-flight
// reads and mutation-driven invalidation, and a Session that owns the
// signed-in user.
//
// Consumers hold a *Client and call its cached operations; navigation
// decisions are delivered through a Navigator they supply.
package journal

import (
	"fmt"
	"net/http"

	"github.com/labstack/gommon/log"
)

// Client wires together the transport, services, cache and session.
type Client struct {
	Config    ClientConfig
	Transport *Transport
	Cache     *QueryCache
	Session   *Session

	Auth    *AuthService
	Profile *ProfileService
	Site    *SiteService
	Posts   *PostService

	logger       *log.Logger
	storage      Storage
	closeStorage func() error
	nav          Navigator
	httpClient   *http.Client
}

// Option configures additional Client behavior.
type Option func(*Client)

// WithStorage replaces the SQLite state file with s.
func WithStorage(s Storage) Option {
	return func(c *Client) {
		c.storage = s
	}
}

// WithNavigator sets where login and logout send the user.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.nav = n
	}
}

// WithHTTPClient uses hc for requests. A cookie jar is added if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client from cfg. Missing config values get defaults.
func New(cfg ClientConfig, opts ...Option) (*Client, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	c := &Client{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = NewLogger(cfg.LogLevel)
	}

	if c.storage == nil {
		st, err := NewSQLiteStorage(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("journal: open state %s: %w", cfg.StatePath, err)
		}
		c.storage = st
		c.closeStorage = st.Close
	}

	t, err := NewTransport(cfg.APIURL, c.httpClient, cfg.RequestTimeout, c.logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("journal: %w", err)
	}
	c.Transport = t
	c.Cache = NewQueryCache(c.logger)

	c.Auth = NewAuthService(t)
	c.Profile = NewProfileService(t)
	c.Site = NewSiteService(t)
	c.Posts = NewPostService(t)

	limiter := NewLoginLimiter(cfg.LoginAttempts, cfg.LoginWindow)
	c.Session = NewSession(c.storage, c.Auth, c.Cache, c.nav, limiter, t, c.logger)
	c.logger.Debugf("client ready for %s (session %s)", cfg.APIURL, c.Session.State())
	return c, nil
}

// Close releases the state file when the Client opened it.
func (c *Client) Close() error {
	if c.closeStorage != nil {
		return c.closeStorage()
	}
	return nil
}
