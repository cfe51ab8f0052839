package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Evidence ties a recommendation back to a quote in the uploaded data.
type Evidence struct {
	Source    string `json:"source"`
	Quote     string `json:"quote"`
	Relevance string `json:"relevance"`
}

// UIChange describes a screen-level change.
type UIChange struct {
	Screen    string `json:"screen"`
	Change    string `json:"change"`
	Component string `json:"component,omitempty"`
}

// DataModelChange describes an entity or schema change.
type DataModelChange struct {
	Entity string `json:"entity"`
	Change string `json:"change"`
	Fields string `json:"fields,omitempty"`
}

// Workflow is a step-by-step user flow with edge cases.
type Workflow struct {
	Name      string   `json:"name"`
	Steps     []string `json:"steps"`
	EdgeCases []string `json:"edge_cases,omitempty"`
}

// DevTask is an ordered implementation task for a coding agent.
type DevTask struct {
	ID       int    `json:"id"`
	Task     string `json:"task"`
	Type     string `json:"type"` // backend, frontend, migration, config
	Priority string `json:"priority,omitempty"`
	Deps     []int  `json:"deps,omitempty"`
}

// ProductSpec is the structured implementation-ready spec the spec-writer
// pipeline embeds in its response as a JSON code block.
type ProductSpec struct {
	Title              string            `json:"title"`
	Problem            string            `json:"problem"`
	UserStory          string            `json:"user_story"`
	Priority           string            `json:"priority"`
	PriorityRationale  string            `json:"priority_rationale,omitempty"`
	AcceptanceCriteria []string          `json:"acceptance_criteria"`
	Evidence           []Evidence        `json:"evidence"`
	UIChanges          []UIChange        `json:"ui_changes"`
	DataModel          []DataModelChange `json:"data_model"`
	Workflows          []Workflow        `json:"workflows"`
	DevTasks           []DevTask         `json:"dev_tasks"`
}

// fencedJSON matches the first code-fenced block, json-tagged or not.
var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractSpec pulls a ProductSpec out of an LLM response. It looks for a
// fenced JSON block first, then tries the whole response as JSON. Returns
// nil if no spec is present; a block without a title does not count.
func ExtractSpec(response string) *ProductSpec {
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		if spec := parseSpec(strings.TrimSpace(m[1])); spec != nil {
			return spec
		}
	}
	return parseSpec(strings.TrimSpace(response))
}

func parseSpec(s string) *ProductSpec {
	var spec ProductSpec
	if err := json.Unmarshal([]byte(s), &spec); err != nil {
		return nil
	}
	if spec.Title == "" {
		return nil
	}
	return &spec
}

// ToMarkdown renders the spec as implementation-ready markdown for a coding
// agent to consume.
func (s *ProductSpec) ToMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "## Problem\n%s\n\n", s.Problem)
	fmt.Fprintf(&b, "## User Story\n%s\n\n", s.UserStory)
	fmt.Fprintf(&b, "## Priority\n%s\n\n", s.Priority)
	if s.PriorityRationale != "" {
		fmt.Fprintf(&b, "## Priority Rationale\n%s\n\n", s.PriorityRationale)
	}

	b.WriteString("## Acceptance Criteria\n")
	for _, ac := range s.AcceptanceCriteria {
		fmt.Fprintf(&b, "- %s\n", ac)
	}

	b.WriteString("\n## Evidence (Traceability)\n")
	for _, e := range s.Evidence {
		fmt.Fprintf(&b, "- **%s**: %q - %s\n", e.Source, e.Quote, e.Relevance)
	}

	b.WriteString("\n## UI Changes\n")
	for _, u := range s.UIChanges {
		comp := ""
		if u.Component != "" {
			comp = fmt.Sprintf(" (%s)", u.Component)
		}
		fmt.Fprintf(&b, "- **%s**: %s%s\n", u.Screen, u.Change, comp)
	}

	b.WriteString("\n## Data Model\n")
	for _, d := range s.DataModel {
		fmt.Fprintf(&b, "- **%s**: %s\n", d.Entity, d.Change)
	}

	b.WriteString("\n## Workflows\n")
	for _, w := range s.Workflows {
		fmt.Fprintf(&b, "### %s\n", w.Name)
		for _, step := range w.Steps {
			fmt.Fprintf(&b, "- %s\n", step)
		}
		for _, ec := range w.EdgeCases {
			fmt.Fprintf(&b, "  - Edge case: %s\n", ec)
		}
	}

	b.WriteString("\n## Dev Tasks (for coding agent)\n")
	for _, t := range s.DevTasks {
		prio := ""
		if t.Priority != "" {
			prio = fmt.Sprintf(" [%s]", t.Priority)
		}
		deps := ""
		if len(t.Deps) > 0 {
			deps = fmt.Sprintf(" (deps: %v)", t.Deps)
		}
		fmt.Fprintf(&b, "%d. [%s] %s%s%s\n", t.ID, t.Type, t.Task, prio, deps)
	}

	return b.String()
}
