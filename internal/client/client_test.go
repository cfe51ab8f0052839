package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopm-ai/autopm/internal/core"
)

func testFiles() []core.UploadedFile {
	return []core.UploadedFile{
		{Name: "usage.csv", ContentType: "text/csv", Data: []byte("feature,count\nexport,42\n")},
		{Name: "interview one.pdf", ContentType: "application/pdf", Data: []byte("%PDF-fake")},
	}
}

func TestRecommendationsMultipartEncoding(t *testing.T) {
	var gotQuery string
	var gotNames []string
	var gotTypes []string
	var gotBodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/recommendations", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(8<<20))

		gotQuery = r.FormValue("query")
		for _, fh := range r.MultipartForm.File["files"] {
			gotNames = append(gotNames, fh.Filename)
			gotTypes = append(gotTypes, fh.Header.Get("Content-Type"))
			f, err := fh.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(f)
			f.Close()
			require.NoError(t, err)
			gotBodies = append(gotBodies, string(data))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recommendations": "## Top picks\n- build export"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	md, err := c.Recommendations(context.Background(), "what next?", testFiles())
	require.NoError(t, err)
	assert.Equal(t, "## Top picks\n- build export", md)

	assert.Equal(t, "what next?", gotQuery)
	assert.Equal(t, []string{"usage.csv", "interview one.pdf"}, gotNames, "filenames and order preserved")
	assert.Equal(t, []string{"text/csv", "application/pdf"}, gotTypes)
	assert.Equal(t, []string{"feature,count\nexport,42\n", "%PDF-fake"}, gotBodies)
}

func TestRecommendationsServiceDetailVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail": "rate limited"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Recommendations(context.Background(), "", testFiles())
	require.Error(t, err)

	assert.Equal(t, "rate limited", err.Error())

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindService, ce.Kind)
	assert.Equal(t, http.StatusTooManyRequests, ce.StatusCode)
}

func TestRecommendationsServiceGenericFallback(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"html error page", http.StatusBadGateway, "<html>Bad Gateway</html>"},
		{"empty body", http.StatusInternalServerError, ""},
		{"json without detail", http.StatusInternalServerError, `{"error": "boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			_, err := c.Recommendations(context.Background(), "", testFiles())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Failed to get recommendations")
			assert.NotContains(t, err.Error(), "<html>", "raw body must not leak into the message")
		})
	}
}

func TestRecommendationsMalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "plain text"},
		{"missing field", `{"status": "ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			_, err := c.Recommendations(context.Background(), "", testFiles())
			require.Error(t, err)

			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, KindMalformed, ce.Kind)
			assert.Equal(t, "Failed to get recommendations (invalid response)", err.Error())
		})
	}
}

func TestRecommendationsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the request fails to connect

	c := New(srv.URL, time.Second)
	_, err := c.Recommendations(context.Background(), "", testFiles())
	require.Error(t, err)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindNetwork, ce.Kind)
	assert.Contains(t, err.Error(), "recommendation service unreachable")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	assert.NoError(t, c.Health(context.Background()))

	bad := New("http://127.0.0.1:1", 200*time.Millisecond)
	assert.Error(t, bad.Health(context.Background()))
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	trimmed := New("http://example.com/", 0)
	assert.Equal(t, "http://example.com", trimmed.baseURL)
}
