package hooks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const scriptMarker = "# installed by autoclock"

// ErrForeignHook means a hook not written by autoclock is already in place.
var ErrForeignHook = errors.New("a hook not installed by autoclock already exists")

// Script returns the shell script that runs binary for hook name.
func Script(name Name, binary string) string {
	return "#!/bin/sh\n" +
		scriptMarker + "\n" +
		"exec " + shellQuote(binary) + " hook " + string(name) + " \"$@\"\n"
}

// Install writes the script for hook name into dir and returns its path.
// An existing hook is replaced only if autoclock wrote it or force is set.
func Install(dir string, name Name, binary string, force bool) (string, error) {
	if _, err := Parse(string(name)); err != nil {
		return "", err
	}
	path := filepath.Join(dir, string(name))

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !force && !strings.Contains(string(existing), scriptMarker) {
			return "", fmt.Errorf("%s: %w (use --force to replace it)", path, ErrForeignHook)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("reading existing hook: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Script(name, binary)), 0o755); err != nil {
		return "", fmt.Errorf("writing hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("making hook executable: %w", err)
	}
	return path, nil
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>*?()[]{}#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
