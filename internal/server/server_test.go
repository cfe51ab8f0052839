package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecommender records what the handler passed in.
type fakeRecommender struct {
	gotContext string
	gotQuery   string
	out        string
	err        error
}

func (f *fakeRecommender) Recommend(_ context.Context, dataContext, query string) (string, error) {
	f.gotContext = dataContext
	f.gotQuery = query
	return f.out, f.err
}

// passthroughExtractor returns the raw bytes as text.
type passthroughExtractor struct{}

func (passthroughExtractor) Text(name, declaredType string, data []byte) string {
	return string(data)
}

func newTestServer(rec Recommender) *httptest.Server {
	s := New(rec, passthroughExtractor{}, WithLogger(log.New(io.Discard, "", 0)))
	return httptest.NewServer(s.Handler())
}

func multipartBody(t *testing.T, query string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("query", query))
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postRecommendations(t *testing.T, url, query string, files map[string]string) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, query, files)
	resp, err := http.Post(url+"/api/recommendations", contentType, body)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRecommendationsSuccess(t *testing.T) {
	rec := &fakeRecommender{out: "## Top picks\n- build export"}
	srv := newTestServer(rec)
	defer srv.Close()

	resp := postRecommendations(t, srv.URL, "what next?", map[string]string{
		"usage.csv": "feature,count\nexport,42",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "## Top picks\n- build export", body["recommendations"])
	assert.Equal(t, "what next?", rec.gotQuery)
	assert.Equal(t, "--- FILE: usage.csv ---\nfeature,count\nexport,42", rec.gotContext)
}

func TestRecommendationsRequiresFiles(t *testing.T) {
	rec := &fakeRecommender{out: "unused"}
	srv := newTestServer(rec)
	defer srv.Close()

	resp := postRecommendations(t, srv.URL, "what next?", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "At least one file is required", body["detail"])
	assert.Empty(t, rec.gotQuery, "recommender must not run without files")
}

func TestRecommendationsPipelineError(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("analyst agent failed: rate limited")}
	srv := newTestServer(rec)
	defer srv.Close()

	resp := postRecommendations(t, srv.URL, "", map[string]string{"a.txt": "x"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "analyst agent failed: rate limited", body["detail"])
}

func TestRecommendationsMultipleFilesOrdered(t *testing.T) {
	rec := &fakeRecommender{out: "ok"}
	s := New(rec, passthroughExtractor{}, WithLogger(log.New(io.Discard, "", 0)))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	// A map loses order, so build the body by hand.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("query", ""))
	for _, f := range []struct{ name, content string }{
		{"first.txt", "one"},
		{"second.txt", "two"},
	} {
		part, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		part.Write([]byte(f.content))
	}
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/recommendations", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t,
		"--- FILE: first.txt ---\none\n\n--- FILE: second.txt ---\ntwo",
		rec.gotContext)
}

func TestRecommendationsMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeRecommender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/recommendations")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeRecommender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestCORS(t *testing.T) {
	t.Run("wildcard reflects origin", func(t *testing.T) {
		srv := newTestServer(&fakeRecommender{})
		defer srv.Close()

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowlist blocks others", func(t *testing.T) {
		s := New(&fakeRecommender{}, passthroughExtractor{},
			WithAllowedOrigins([]string{"http://app.example.com"}),
			WithLogger(log.New(io.Discard, "", 0)))
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		srv := newTestServer(&fakeRecommender{})
		defer srv.Close()

		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/recommendations", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	})
}
