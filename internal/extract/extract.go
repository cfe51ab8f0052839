// Package extract turns uploaded documents into plain text for the LLM
// context window. Extraction never fails a request: unreadable content is
// replaced with an inline bracketed note so the model can still see which
// file was provided.
package extract

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Extractor converts one document format into plain text.
type Extractor interface {
	// Supports reports whether this extractor handles the MIME type.
	Supports(mimeType string) bool

	// Extract returns the document's text content.
	Extract(name string, data []byte) (string, error)
}

// Registry dispatches documents to the first extractor that supports their
// MIME type, with a plain-text fallback for everything else.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a registry with the given extractors, tried in order.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// DefaultRegistry covers the advertised formats: CSV usage data, PDF and
// Word interviews, and anything text-like.
func DefaultRegistry() *Registry {
	return NewRegistry(
		CSVExtractor{},
		PDFExtractor{},
		DocxExtractor{},
	)
}

// Text extracts a document's content as a string. The declared MIME type is
// used when present, otherwise it is detected from the filename and content.
// Failures come back as inline "[Error reading ...]" text, never as errors.
func (r *Registry) Text(name, declaredType string, data []byte) string {
	mimeType := normalize(declaredType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = DetectMIME(name, data)
	}

	for _, e := range r.extractors {
		if !e.Supports(mimeType) {
			continue
		}
		text, err := e.Extract(name, data)
		if err != nil {
			return fmt.Sprintf("[Error reading %s: %v]", name, err)
		}
		return text
	}

	// Fallback: decode as UTF-8 text with replacement. Works for .txt, .md,
	// .json, .xml and keeps binary garbage from poisoning the prompt.
	return strings.ToValidUTF8(strings.ReplaceAll(string(data), "\r\n", "\n"), "�")
}

// Document is a named, already-extracted text block.
type Document struct {
	Name string
	Text string
}

// BuildContext combines extracted documents into the single context string
// handed to the LLM.
func BuildContext(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, fmt.Sprintf("--- FILE: %s ---\n%s", d.Name, d.Text))
	}
	return strings.Join(parts, "\n\n")
}

// DetectMIME determines a MIME type from the filename extension, falling
// back to content sniffing.
func DetectMIME(name string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := normalize(mime.TypeByExtension(ext)); byExt != "" {
			return byExt
		}
		// Extensions the platform mime table may not know.
		switch ext {
		case ".md":
			return "text/markdown"
		case ".csv":
			return "text/csv"
		case ".docx":
			return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		}
	}

	if m := normalize(http.DetectContentType(data)); m != "application/octet-stream" {
		return m
	}
	return "application/octet-stream"
}

// normalize strips parameters like "; charset=utf-8" from a MIME type.
func normalize(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
