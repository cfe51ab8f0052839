// Package version handles the update notice and the first-run welcome.
// Everything here is best effort: a GitHub outage or an unwritable home
// directory must never delay or fail a command.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/autopm-ai/autopm/internal/tui"
)

// checkInterval throttles release lookups to one per day.
const checkInterval = 24 * time.Hour

// releaseEndpoint is a var so tests can point it at a local server.
var releaseEndpoint = "https://api.github.com/repos/autopm-ai/autopm/releases/latest"

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult describes an available update.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// CheckForUpdate returns the latest release if it is newer than the
// running version, or nil when up to date, throttled, or on any error.
func CheckForUpdate(currentVersion string) *CheckResult {
	// Source builds report "dev" and never get nagged.
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}

	if checkedRecently() {
		return nil
	}
	recordCheck()

	latest, err := latestRelease()
	if err != nil {
		return nil
	}

	if !newerThan(latest.TagName, currentVersion) {
		return nil
	}

	return &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  latest.TagName,
		ReleaseURL:     latest.HTMLURL,
	}
}

// PrintUpdateNotice prints a short banner for an available update.
func PrintUpdateNotice(result *CheckResult) {
	if result == nil {
		return
	}

	fmt.Println()
	fmt.Printf("%s A new version of autopm is available: %s (you have %s)\n",
		tui.WarningStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Printf("  Update: %s\n", tui.HelpStyle.Render("go install github.com/autopm-ai/autopm@latest"))
	fmt.Println()
}

func latestRelease() (*release, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(releaseEndpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup returned %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	if rel.TagName == "" {
		return nil, fmt.Errorf("release has no tag")
	}
	return &rel, nil
}

// stateDir is where autopm keeps cross-run state (the update-check and
// first-run markers). It is separate from ~/.autopm.yaml so deleting
// the config does not retrigger the notices.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".autopm"), nil
}

func checkedRecently() bool {
	dir, err := stateDir()
	if err != nil {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, ".last-update-check"))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < checkInterval
}

func recordCheck() {
	dir, err := stateDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	marker := filepath.Join(dir, ".last-update-check")
	now := time.Now()
	if err := os.Chtimes(marker, now, now); err != nil {
		_ = os.WriteFile(marker, nil, 0o644)
	}
}

// newerThan reports whether the latest tag is ahead of the running
// version. Releases are tagged vX.Y.Z with an optional pre-release
// suffix (v0.2.0-rc.1); a final release is newer than its own
// pre-releases, and a missing part counts as zero.
func newerThan(latest, current string) bool {
	lNums, lPre := splitTag(latest)
	cNums, cPre := splitTag(current)

	for i := 0; i < len(lNums) || i < len(cNums); i++ {
		var l, c int
		if i < len(lNums) {
			l = lNums[i]
		}
		if i < len(cNums) {
			c = cNums[i]
		}
		if l != c {
			return l > c
		}
	}

	return lPre == "" && cPre != ""
}

// splitTag parses "v0.2.0-rc.1" into numeric parts and the pre-release
// suffix. Non-numeric parts parse as zero, which is good enough for
// the tags this project publishes.
func splitTag(tag string) ([]int, string) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "v")
	base, pre, _ := strings.Cut(tag, "-")

	parts := strings.Split(base, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		nums[i], _ = strconv.Atoi(p)
	}
	return nums, pre
}
