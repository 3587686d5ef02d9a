package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/net/publicsuffix"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 16 << 20

// Transport is the single configured HTTP client for the API. It attaches the
// session cookie to every request, unwraps the {"data": ...} envelope and
// turns failures into *APIError values. It never retries.
type Transport struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger

	mu    sync.RWMutex
	on401 []func(error)
}

// NewTransport creates a Transport rooted at baseURL. When hc is nil a client
// with a cookie jar is created; a caller-supplied client without a jar gets one.
func NewTransport(baseURL string, hc *http.Client, timeout time.Duration, logger *log.Logger) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	if logger == nil {
		logger = NewLogger("off")
	}
	return &Transport{base: u, http: hc, logger: logger}, nil
}

// OnUnauthenticated registers fn to be called whenever a request comes back
// 401. The error is still returned to the caller of that request.
func (t *Transport) OnUnauthenticated(fn func(error)) {
	t.mu.Lock()
	t.on401 = append(t.on401, fn)
	t.mu.Unlock()
}

// Cookies returns the cookies the jar would send to the API.
func (t *Transport) Cookies() []*http.Cookie {
	return t.http.Jar.Cookies(t.base)
}

// Get issues a GET and decodes the envelope payload into out.
func (t *Transport) Get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with body (nil for none) and decodes the payload into out.
func (t *Transport) Post(ctx context.Context, path string, body requestBody, out any) error {
	return t.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH with body and decodes the payload into out.
func (t *Transport) Patch(ctx context.Context, path string, body requestBody, out any) error {
	return t.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE and decodes the payload, if any, into out.
func (t *Transport) Delete(ctx context.Context, path string, out any) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil, out)
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (t *Transport) do(ctx context.Context, method, path string, query url.Values, body requestBody, out any) error {
	op := method + " " + path
	u := *t.base
	// path arrives with its segments already escaped.
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return &APIError{Op: op, Kind: ErrValidation, Err: err}
	}
	u.Path = strings.TrimSuffix(t.base.Path, "/") + unescaped
	u.RawPath = strings.TrimSuffix(t.base.EscapedPath(), "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		reader, contentType, err = body.encode()
		if err != nil {
			return &APIError{Op: op, Kind: ErrValidation, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &APIError{Op: op, Kind: ErrNetwork, Err: err}
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.logger.Warnf("%s failed after %s: %v", op, time.Since(start), err)
		return &APIError{Op: op, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	t.logger.Debugf("%s -> %d (%s)", op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrNetwork, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: env.Message,
			Kind:    kindForStatus(resp.StatusCode),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			t.notifyUnauthenticated(apiErr)
		} else {
			t.logger.Warnf("%s -> %d %s", op, resp.StatusCode, env.Message)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrServer, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrServer, Err: errors.New("response has no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Kind: ErrServer, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func (t *Transport) notifyUnauthenticated(err error) {
	t.mu.RLock()
	subs := make([]func(error), len(t.on401))
	copy(subs, t.on401)
	t.mu.RUnlock()
	for _, fn := range subs {
		fn(err)
	}
}

// escapeSegment escapes a single path segment such as a slug.
func escapeSegment(s string) string {
	return url.PathEscape(s)
}
