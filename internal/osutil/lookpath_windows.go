package osutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func statFile(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if d.IsDir() {
		return os.ErrPermission
	}
	return nil
}

func hasExt(file string) bool {
	i := strings.LastIndex(file, ".")
	if i < 0 {
		return false
	}
	return strings.LastIndexAny(file, `:\/`) < i
}

func findExecutable(file string, exts []string) (string, error) {
	if len(exts) == 0 {
		return file, statFile(file)
	}
	if hasExt(file) && statFile(file) == nil {
		return file, nil
	}
	for _, e := range exts {
		if f := file + e; statFile(f) == nil {
			return f, nil
		}
	}
	return "", os.ErrNotExist
}

// LookPath searches the semicolon separated list of directories in path for
// an executable named file, trying each extension in fileExtensions (the
// PATHEXT format). A file containing a path separator is checked directly.
func LookPath(file, path, fileExtensions string) (string, error) {
	var exts []string
	for e := range strings.SplitSeq(strings.ToLower(fileExtensions), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		exts = []string{".com", ".exe", ".bat", ".cmd"}
	}

	if strings.ContainsAny(file, `:\/`) {
		f, err := findExecutable(file, exts)
		if err != nil {
			return "", &exec.Error{Name: file, Err: err}
		}
		return f, nil
	}

	if f, err := findExecutable(filepath.Join(".", file), exts); err == nil {
		return f, nil
	}

	for _, dir := range filepath.SplitList(path) {
		if f, err := findExecutable(filepath.Join(dir, file), exts); err == nil {
			return f, nil
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}
