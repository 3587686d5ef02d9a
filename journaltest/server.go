package journaltest

import (
	"net/http/httptest"
	"testing"

	"github.com/eringen/journal"
)

// Server runs an API on a local httptest listener for the life of a test.
type Server struct {
	*API
	HTTP *httptest.Server
}

// NewServer starts an API and stops it when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	api := NewAPI()
	srv := httptest.NewServer(api.Echo)
	t.Cleanup(srv.Close)
	return &Server{API: api, HTTP: srv}
}

// BaseURL is the API root to hand to a client.
func (s *Server) BaseURL() string {
	return s.HTTP.URL + Prefix
}

// Client builds a journal.Client against the server backed by in-memory
// storage. It is closed when t finishes.
func (s *Server) Client(t testing.TB, opts ...journal.Option) *journal.Client {
	t.Helper()
	opts = append([]journal.Option{journal.WithStorage(journal.NewMemoryStorage())}, opts...)
	c, err := journal.New(journal.ClientConfig{
		APIURL:   s.BaseURL(),
		LogLevel: "off",
	}, opts...)
	if err != nil {
		t.Fatalf("journaltest: new client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
