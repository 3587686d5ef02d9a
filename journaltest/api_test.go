package journaltest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/journal"
)

func serve(t *testing.T, a *API, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestEnvelope(t *testing.T) {
	a := NewAPI()

	rec, env := serve(t, a, http.MethodGet, Prefix+"/site/get", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var site journal.Site
	require.NoError(t, json.Unmarshal(env["data"], &site))
	assert.Equal(t, "Journal", site.WebsiteName)

	rec, env = serve(t, a, http.MethodGet, Prefix+"/post/get/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `"Post not found"`, string(env["message"]))
}

func TestPaginationMatchesServiceShape(t *testing.T) {
	a := NewAPI()
	for j := 0; j < 3; j++ {
		a.AddPost(journal.Post{Title: "Same title", Category: "Life"})
	}

	_, env := serve(t, a, http.MethodGet, Prefix+"/post/get?page=2&limit=2", "")
	var res journal.PostsResponse
	require.NoError(t, json.Unmarshal(env["data"], &res))
	assert.Len(t, res.Posts, 1)
	assert.Equal(t, journal.Pagination{
		CurrentPage: 2, TotalPages: 2, TotalPosts: 3, Limit: 2, HasPrevPage: true,
	}, res.Pagination)
}

func TestAddPostAssignsUniqueSlugs(t *testing.T) {
	a := NewAPI()
	first := a.AddPost(journal.Post{Title: "Same title"})
	second := a.AddPost(journal.Post{Title: "Same title"})

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	a := NewAPI()
	rec, env := serve(t, a, http.MethodGet, Prefix+"/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, string(env["message"]), "Not authenticated")
}

func TestHitsAndFailNext(t *testing.T) {
	a := NewAPI()
	a.FailNext("GET /profile/get", http.StatusServiceUnavailable)

	rec, _ := serve(t, a, http.MethodGet, Prefix+"/profile/get", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec, _ = serve(t, a, http.MethodGet, Prefix+"/profile/get", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2, a.Hits("GET /profile/get"))
	a.ResetHits()
	assert.Zero(t, a.Hits("GET /profile/get"))
}

func TestUpdateProfileRejectsBothAvatarForms(t *testing.T) {
	a := NewAPI()
	srv := httptest.NewServer(a.Echo)
	defer srv.Close()

	c, err := journal.New(journal.ClientConfig{APIURL: srv.URL + Prefix, LogLevel: "off"},
		journal.WithStorage(journal.NewMemoryStorage()))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), AdminEmail, AdminPassword)
	require.NoError(t, err)

	body := "--b\r\n" +
		"Content-Disposition: form-data; name=\"avatar\"\r\n\r\nhttps://cdn.example.com/a.jpg\r\n" +
		"--b\r\n" +
		"Content-Disposition: form-data; name=\"avatar\"; filename=\"a.jpg\"\r\nContent-Type: image/jpeg\r\n\r\njpeg\r\n" +
		"--b--\r\n"
	req, err := http.NewRequest(http.MethodPatch, srv.URL+Prefix+"/profile/update", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	for _, ck := range c.Transport.Cookies() {
		req.AddCookie(ck)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
