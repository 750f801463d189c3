// Package payload turns secret content into what the child process sees:
// either environment variables parsed from KEY=VALUE lines, or a staged
// temporary file referenced by a single variable.
package payload

import (
	"strings"

	"github.com/rbwchain/rbwchain/env"
	"github.com/rbwchain/rbwchain/logger"
)

// Parse reads KEY=VALUE lines from content. Blank lines and lines starting
// with # are ignored. Lines without an = or with an empty key are skipped
// with a warning that names the line number but never its content. A later
// key overwrites an earlier one.
func Parse(content string, l logger.Logger) (*env.Environment, error) {
	if l == nil {
		l = logger.Discard
	}

	vars := env.New()

	for i, raw := range strings.Split(content, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			l.Warn("Skipping line %d of secret content: no '=' found", lineNo)
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" {
			l.Warn("Skipping line %d of secret content: empty variable name", lineNo)
			continue
		}
		if strings.ContainsRune(key, 0) {
			return nil, &ConfigError{Line: lineNo, Reason: "variable name contains a NUL byte"}
		}
		if strings.ContainsRune(value, 0) {
			return nil, &ConfigError{Line: lineNo, Reason: "value of " + key + " contains a NUL byte"}
		}

		vars.Set(key, value)
	}

	if vars.Length() == 0 && strings.TrimSpace(content) != "" {
		l.Warn("Secret content was not empty but no KEY=VALUE pairs were found")
	}

	return vars, nil
}
