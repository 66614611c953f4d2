package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrRunnerNotFound = errors.New("runner executable not found")

// Well-known install locations checked before falling back to a login
// shell lookup. Cheap stat calls, no shell startup cost.
var wellKnownDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
}

// LocateRunner resolves the runner executable by name. Well-known install
// directories are checked first; when none match, a login shell is asked to
// resolve the name so user PATH customization is respected. The shell
// fallback costs ~100ms, which is why it runs last.
func LocateRunner(name string, extraDirs []string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrRunnerNotFound, name)
	}

	for _, dir := range candidateDirs(extraDirs) {
		path := filepath.Join(dir, name)
		if isExecutable(path) {
			return path, nil
		}
	}

	if path, err := loginShellLookup(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrRunnerNotFound, name)
}

func candidateDirs(extraDirs []string) []string {
	dirs := make([]string, 0, len(extraDirs)+len(wellKnownDirs)+2)
	dirs = append(dirs, extraDirs...)
	dirs = append(dirs, wellKnownDirs...)

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "bin"),
			filepath.Join(home, ".cargo", "bin"),
		)
	}

	return dirs
}

func loginShellLookup(name string) (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	out, err := exec.Command(shell, "-l", "-c", "command -v "+shellQuote(name)).Output()
	if err != nil {
		return "", fmt.Errorf("login shell lookup: %w", err)
	}

	path := strings.TrimSpace(string(out))
	if path == "" || !isExecutable(path) {
		return "", fmt.Errorf("%w: %s", ErrRunnerNotFound, name)
	}

	return path, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
