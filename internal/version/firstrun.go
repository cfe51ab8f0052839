package version

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/autopm-ai/autopm/internal/tui"
)

// IsFirstRun reports whether autopm has run on this machine before.
// A saved config or the init marker both count as prior use.
func IsFirstRun() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(home, ".autopm.yaml")); err == nil {
		return false
	}

	dir, err := stateDir()
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, ".initialized"))
	return err != nil
}

// MarkInitialized writes the marker that suppresses the welcome banner.
func MarkInitialized() {
	dir, err := stateDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, ".initialized"), nil, 0o644)
}

// PrintFirstRunNotice prints a welcome message for first-time users.
func PrintFirstRunNotice() {
	fmt.Println()
	fmt.Printf("%s Welcome to autopm!\n", tui.TitleStyle.Render("*"))
	fmt.Println()
	fmt.Println("  Quick start:")
	fmt.Printf("    1. Run %s to configure your preferred models\n", tui.ModelStyle.Render("autopm setup"))
	fmt.Printf("    2. Start the API: %s\n", tui.ModelStyle.Render("autopm serve"))
	fmt.Printf("    3. Ask for recommendations: %s\n", tui.ModelStyle.Render("autopm ask usage.csv interviews.pdf"))
	fmt.Println()
	fmt.Printf("  %s\n", tui.HelpStyle.Render("Run 'autopm --help' for all options"))
	fmt.Println()

	MarkInitialized()
}
