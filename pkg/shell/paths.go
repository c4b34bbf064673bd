package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// RCPath returns the path of the rc file, sourced in interactive mode.
func RCPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vimscriptrc"), nil
}

// expandHome expands a leading ~ in a path to the home directory. The path is
// returned unchanged if the home directory cannot be determined.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
