package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/autopm-ai/autopm/internal/core"
)

// JSONAdapter writes the structured spec as indented JSON.
type JSONAdapter struct{}

func (JSONAdapter) Name() string {
	return "json"
}

func (JSONAdapter) Write(path string, spec *core.ProductSpec, raw string) error {
	if spec == nil {
		return errors.New("response contains no structured spec")
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
