// Package client implements the HTTP contract with the recommendation
// service: one multipart POST per submission, JSON responses, and all
// failure shapes normalized into a single Error type before they reach the
// display layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/autopm-ai/autopm/internal/core"
)

// DefaultBaseURL points at a locally running `autopm serve`.
const DefaultBaseURL = "http://localhost:8787"

// maxResponseBytes caps how much of a response body we read.
const maxResponseBytes = 4 << 20

// Kind classifies a request failure.
type Kind int

const (
	// KindNetwork means the request could not be sent or no response
	// arrived (connectivity, DNS, timeout).
	KindNetwork Kind = iota

	// KindService means the service answered with a non-2xx status.
	KindService

	// KindMalformed means a 2xx response whose body was not the expected
	// JSON shape. Surfaced like a service error with a generic message.
	KindMalformed
)

// Error is the single failure shape the client produces. The message is
// user-facing: the service-supplied detail verbatim when present, otherwise
// a generic status-derived fallback.
type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string // service-supplied detail, may be empty
	cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("recommendation service unreachable: %v", e.cause)
	case KindService:
		if e.Detail != "" {
			return e.Detail
		}
		return fmt.Sprintf("Failed to get recommendations (HTTP %d)", e.StatusCode)
	default:
		return "Failed to get recommendations (invalid response)"
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Client talks to the recommendation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL. An empty base URL means
// DefaultBaseURL. The timeout bounds the full request; 0 disables the
// client-level bound (callers pass a context deadline instead).
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// successBody is the expected 2xx response shape.
type successBody struct {
	Recommendations *string `json:"recommendations"`
}

// errorBody is the failure response shape the service uses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Recommendations submits the query and files as one multipart POST and
// returns the recommendation markdown. Filenames and file order are
// preserved. Every failure path returns an *Error.
func (c *Client) Recommendations(ctx context.Context, query string, files []core.UploadedFile) (string, error) {
	body, contentType, err := encodeForm(query, files)
	if err != nil {
		return "", &Error{Kind: KindNetwork, cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recommendations", body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{Kind: KindNetwork, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return "", &Error{Kind: KindService, StatusCode: resp.StatusCode, Detail: eb.Detail}
	}

	var sb successBody
	if err := json.Unmarshal(raw, &sb); err != nil || sb.Recommendations == nil {
		return "", &Error{Kind: KindMalformed, StatusCode: resp.StatusCode, cause: err}
	}

	return *sb.Recommendations, nil
}

// Health checks GET /api/health. Returns nil when the service reports ok.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return &Error{Kind: KindNetwork, cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindService, StatusCode: resp.StatusCode}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encodeForm builds the multipart body: one `query` text field, then one
// `files` part per file in order, each with its original filename and
// declared content type.
func encodeForm(query string, files []core.UploadedFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("query", query); err != nil {
		return nil, "", err
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
