// Package journaltest provides an in-memory stand-in for the blog REST API,
// for tests and local development. It speaks the same routes, envelope and
// cookie session as the real service and records how often each route is hit.
package journaltest

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/journal"
)

// Default administrator seeded into every API.
const (
	AdminID       = "u1"
	AdminEmail    = "admin@example.com"
	AdminPassword = "password123"
	AdminName     = "Admin"
)

// Prefix is where the routes are mounted; clients use URL+Prefix as base.
const Prefix = "/api/v1"

const sessionName = "journal_session"

type admin struct {
	id           string
	email        string
	name         string
	passwordHash []byte
}

// API is the fake service. Its Echo instance serves the routes.
type API struct {
	Echo *echo.Echo

	mu       sync.Mutex
	posts    []journal.Post // newest first
	profile  journal.Profile
	site     journal.Site
	admin    admin
	epoch    int // bumped by ExpireSessions
	hits     map[string]int
	failures map[string][]int
	delay    time.Duration
	now      func() time.Time
}

// NewAPI creates an API seeded with the default admin, profile and site.
func NewAPI() *API {
	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("journaltest: hash admin password: %v", err))
	}
	a := &API{
		Echo:     echo.New(),
		admin:    admin{id: AdminID, email: AdminEmail, name: AdminName, passwordHash: hash},
		hits:     make(map[string]int),
		failures: make(map[string][]int),
		now:      time.Now,
		profile: journal.Profile{
			ID:           uuid.NewString(),
			AuthorName:   "Jane Doe",
			AuthorTitle:  "Writer",
			AuthorSlogan: "Small stories, often",
			AuthorBio:    "Writes about travel and everyday life.",
			AuthorStory:  "Started this journal on a long train ride.",
			Email:        AdminEmail,
		},
		site: journal.Site{
			ID:           uuid.NewString(),
			WebsiteName:  "Journal",
			BannerTitle:  "Stories",
			BannerSlogan: "Notes from the road",
			BannerBio:    "A personal journal of life and travel.",
		},
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *API) setupMiddleware() {
	e := a.Echo
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	store := sessions.NewCookieStore([]byte("journaltest-session-secret-32byt"))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(a.instrument)
}

func (a *API) setupRoutes() {
	g := a.Echo.Group(Prefix)

	g.POST("/auth/login", a.handleLogin)
	g.POST("/auth/logout", a.handleLogout)
	g.GET("/auth/me", a.handleMe, a.requireAdmin)
	g.PATCH("/auth/email", a.handleUpdateEmail, a.requireAdmin)
	g.PATCH("/auth/password", a.handleUpdatePassword, a.requireAdmin)

	g.GET("/profile/get", a.handleGetProfile)
	g.PATCH("/profile/update", a.handleUpdateProfile, a.requireAdmin)

	g.GET("/site/get", a.handleGetSite)
	g.PATCH("/site/update", a.handleUpdateSite, a.requireAdmin)

	g.GET("/post/get", a.handleListPosts)
	g.GET("/post/get/:slug", a.handleGetPost)
	g.GET("/post/get-by-category/:category", a.handleListByCategory)
	g.POST("/post/create", a.handleCreatePost, a.requireAdmin)
	g.PATCH("/post/update/:slug", a.handleUpdatePost, a.requireAdmin)
	g.DELETE("/post/delete/:slug", a.handleDeletePost, a.requireAdmin)
}

// routeKey names a request the way Hits and FailNext expect, e.g.
// "GET /post/get/:slug".
func routeKey(c echo.Context) string {
	return c.Request().Method + " " + strings.TrimPrefix(c.Path(), Prefix)
}

// instrument counts hits, applies the configured delay and serves injected
// failures.
func (a *API) instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := routeKey(c)
		a.mu.Lock()
		a.hits[key]++
		delay := a.delay
		var status int
		if queue := a.failures[key]; len(queue) > 0 {
			status = queue[0]
			a.failures[key] = queue[1:]
		}
		a.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			return fail(c, status, "injected failure")
		}
		return next(c)
	}
}

// Hits returns how many requests reached route, e.g. "GET /post/get".
func (a *API) Hits(route string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[route]
}

// ResetHits zeroes every counter.
func (a *API) ResetHits() {
	a.mu.Lock()
	a.hits = make(map[string]int)
	a.mu.Unlock()
}

// FailNext makes the next request to route answer status instead.
func (a *API) FailNext(route string, status int) {
	a.mu.Lock()
	a.failures[route] = append(a.failures[route], status)
	a.mu.Unlock()
}

// SetDelay holds every request for d before handling it.
func (a *API) SetDelay(d time.Duration) {
	a.mu.Lock()
	a.delay = d
	a.mu.Unlock()
}

// ExpireSessions invalidates every issued session cookie.
func (a *API) ExpireSessions() {
	a.mu.Lock()
	a.epoch++
	a.mu.Unlock()
}

// AddPost stores p as the newest post, filling in id, slug and timestamps
// when missing, and returns the stored copy.
func (a *API) AddPost(p journal.Post) journal.Post {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Slug == "" {
		p.Slug = a.uniqueSlugLocked(journal.Slugify(p.Title), "")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = a.now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	a.posts = append([]journal.Post{p}, a.posts...)
	sort.SliceStable(a.posts, func(i, j int) bool {
		return a.posts[i].CreatedAt.After(a.posts[j].CreatedAt)
	})
	return p
}

// Post returns the stored post at slug.
func (a *API) Post(slug string) (journal.Post, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(slug)
	if i < 0 {
		return journal.Post{}, false
	}
	return a.posts[i], true
}

// Profile returns the stored profile.
func (a *API) Profile() journal.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

// Site returns the stored site settings.
func (a *API) Site() journal.Site {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.site
}

func (a *API) indexLocked(slug string) int {
	for i, p := range a.posts {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}

// uniqueSlugLocked appends -2, -3, ... to base until no post other than the
// one at except uses it.
func (a *API) uniqueSlugLocked(base, except string) string {
	if base == "" {
		base = "story"
	}
	candidate := base
	for n := 2; ; n++ {
		i := a.indexLocked(candidate)
		if i < 0 || a.posts[i].Slug == except {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, map[string]any{"success": true, "data": data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "message": msg})
}
