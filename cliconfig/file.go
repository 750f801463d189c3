package cliconfig

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/rbwchain/rbwchain/internal/osutil"
)

// File is a key=value configuration file. Keys are flag names.
type File struct {
	// The path to the file
	Path string

	// A map of key/values that was loaded from the file
	Config map[string]string
}

func (f *File) Load() error {
	f.Config = map[string]string{}

	absolutePath, err := f.AbsolutePath()
	if err != nil {
		return fmt.Errorf("getting absolute path for %s: %w", f.Path, err)
	}

	file, err := os.Open(absolutePath)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", f.Path, err)
	}
	defer file.Close() //nolint:errcheck // it's only open for reading

	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if isIgnoredLine(line) {
			continue
		}

		key, value, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("parsing config line %d: %w", lineNum, err)
		}
		f.Config[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading file %s: %w", f.Path, err)
	}
	return nil
}

func (f File) AbsolutePath() (string, error) {
	return osutil.NormalizeFilePath(f.Path)
}

// Exists reports whether the file is present. A path that cannot be made
// absolute is treated as missing.
func (f File) Exists() bool {
	absolutePath, err := f.AbsolutePath()
	if err != nil {
		return false
	}
	return osutil.FileExists(absolutePath)
}

// parseLine accepts `key=value`, `key: value` and an optional leading
// `export`. Values may be quoted the way a POSIX shell quotes a single
// word; unquoted values end at a " #" comment.
func parseLine(line string) (key, value string, err error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		key, value, ok = strings.Cut(line, ":")
	}
	if !ok {
		return "", "", fmt.Errorf("can't separate key from value in %q, no valid separators (= or :) found", line)
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	if key == "" {
		return "", "", fmt.Errorf("missing key in %q", line)
	}

	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, `'`) {
		words, err := shellwords.SplitPosix(value)
		if err != nil {
			return "", "", fmt.Errorf("parsing quoted value of %s: %w", key, err)
		}
		switch len(words) {
		case 0:
			return key, "", nil
		case 1:
			return key, words[0], nil
		default:
			return "", "", fmt.Errorf("value of %s must be a single quoted string", key)
		}
	}

	if i := strings.Index(value, " #"); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}

	return key, value, nil
}

func isIgnoredLine(line string) bool {
	trimmedLine := strings.TrimSpace(line)
	return len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, "#")
}
