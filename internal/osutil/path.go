package osutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// NormalizeFilePath returns a clean absolute version of path. It expands
// environment variables, converts "~/" into the user's home directory, and
// resolves relative paths against the working directory.
func NormalizeFilePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	path, err := ExpandHome(os.ExpandEnv(path))
	if err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// ExpandHome expands a leading "~" to the user's home directory. Paths
// without the prefix are returned unchanged. "~user" forms are not
// supported.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return "", errors.New("cannot expand user-specific home dir")
	}

	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
