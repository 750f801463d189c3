package payload

import "fmt"

// ConfigError is returned for an unusable file-mode specification, or for a
// parsed variable that cannot be placed in an environment.
type ConfigError struct {
	// Spec is the offending --file value, or empty for a parse error.
	Spec string
	// Line is the 1-based payload line number, or 0 for a --file error.
	Line   int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid variable on line %d of secret content: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid file variable specification %q: %s", e.Spec, e.Reason)
}

// IOError is returned when the staged file cannot be created or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s temporary file: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s temporary file %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
