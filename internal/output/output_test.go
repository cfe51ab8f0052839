package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/autopm-ai/autopm/internal/core"
)

func sampleSpec() *core.ProductSpec {
	return &core.ProductSpec{
		Title:              "Bulk export",
		Problem:            "No export.",
		UserStory:          "As a lead, I want exports.",
		Priority:           "P0",
		AcceptanceCriteria: []string{"CSV downloads"},
	}
}

func TestAdapterForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"spec.json", "json"},
		{"spec.JSON", "json"},
		{"spec.md", "markdown"},
		{"spec", "markdown"},
	}

	for _, tt := range tests {
		if got := AdapterForPath(tt.path).Name(); got != tt.want {
			t.Errorf("AdapterForPath(%q).Name() = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMarkdownAdapterWritesSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.md")
	if err := (MarkdownAdapter{}).Write(path, sampleSpec(), "raw response"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Bulk export") {
		t.Errorf("file missing spec title:\n%s", data)
	}
}

func TestMarkdownAdapterFallsBackToRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.md")
	if err := (MarkdownAdapter{}).Write(path, nil, "## Recommendations\n- build export"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "## Recommendations\n- build export" {
		t.Errorf("got %q", data)
	}
}

func TestJSONAdapterRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := (JSONAdapter{}).Write(path, sampleSpec(), ""); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got core.ProductSpec
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Title != "Bulk export" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestJSONAdapterRequiresSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := (JSONAdapter{}).Write(path, nil, "raw"); err == nil {
		t.Error("expected error when no structured spec present")
	}
}
