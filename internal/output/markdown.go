package output

import (
	"fmt"
	"os"

	"github.com/autopm-ai/autopm/internal/core"
)

// MarkdownAdapter writes the spec as a readable markdown document.
type MarkdownAdapter struct{}

func (MarkdownAdapter) Name() string {
	return "markdown"
}

func (MarkdownAdapter) Write(path string, spec *core.ProductSpec, raw string) error {
	content := raw
	if spec != nil {
		content = spec.ToMarkdown()
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
