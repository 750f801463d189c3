//go:build !windows

package osutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func isExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// LookPath searches the colon separated list of directories in path for an
// executable named file. Unlike exec.LookPath, the search path is an
// argument so callers can resolve against an environment other than the
// current process's. fileExtensions is ignored outside Windows.
//
// A file containing a slash is checked directly.
func LookPath(file, path, fileExtensions string) (string, error) {
	if strings.Contains(file, "/") {
		if err := isExecutable(file); err != nil {
			return "", &exec.Error{Name: file, Err: err}
		}
		return file, nil
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// An empty element means the current directory.
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) == nil {
			return candidate, nil
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}
