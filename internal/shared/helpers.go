// Package shared provides small string and path helpers used by the CLI and
// adapters.
package shared

import (
	"os"
	"path/filepath"
	"strings"
)

// SplitAssignment splits "name=value" at the first '='. The name is trimmed;
// the value is kept verbatim so it may itself contain '=' or spaces.
func SplitAssignment(value string) (string, string, bool) {
	name, rest, ok := strings.Cut(value, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, rest, true
}

// ExpandHome replaces a leading "~" or "$HOME" with the user's home directory.
func ExpandHome(path string) string {
	trimmed := strings.TrimSpace(path)
	var rest string
	switch {
	case trimmed == "~" || trimmed == "$HOME":
		rest = ""
	case strings.HasPrefix(trimmed, "~/"):
		rest = trimmed[2:]
	case strings.HasPrefix(trimmed, "$HOME/"):
		rest = trimmed[len("$HOME/"):]
	default:
		return trimmed
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return trimmed
	}
	return filepath.Join(home, rest)
}
