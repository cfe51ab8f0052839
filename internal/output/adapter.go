// Package output writes extracted product specs to disk in the formats the
// downstream tooling consumes.
package output

import (
	"path/filepath"
	"strings"

	"github.com/autopm-ai/autopm/internal/core"
)

// Adapter is the interface all spec writers implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Write persists the spec at path. raw is the full model response, used
	// when the structured spec is missing pieces.
	Write(path string, spec *core.ProductSpec, raw string) error
}

// AdapterForPath picks a writer from the output filename extension.
// Unknown extensions get markdown, the format recommendations arrive in.
func AdapterForPath(path string) Adapter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONAdapter{}
	default:
		return MarkdownAdapter{}
	}
}
