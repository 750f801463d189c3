package credential

import (
	"fmt"
	"path/filepath"
	"strings"
)

// rbwHomepage is named in the remediation hint when the default credential
// command is missing.
const rbwHomepage = "https://github.com/doy/rbw"

// PrerequisiteError is returned by CheckInstalled when the credential
// command cannot be resolved.
type PrerequisiteError struct {
	Command string
	Err     error
}

func (e *PrerequisiteError) Error() string {
	if strings.ContainsAny(e.Command, `/\`) {
		return fmt.Sprintf("The '%s' command was not found or is not executable.", e.Command)
	}
	return fmt.Sprintf("The '%s' command was not found in your system's PATH.", e.Command)
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}

// Hint is the remediation line shown after the error.
func (e *PrerequisiteError) Hint() string {
	if name := filepath.Base(e.Command); name == "rbw" {
		return fmt.Sprintf("Please ensure rbw (%s) is installed and accessible.", rbwHomepage)
	}
	return fmt.Sprintf("Please ensure %s is installed and accessible.", e.Command)
}

// FetchError is returned when the credential command ran but exited
// unsuccessfully.
type FetchError struct {
	ID      string
	Command string

	// ExitCode is -1 when the command was terminated by a signal.
	ExitCode int
	Status   string
	Stderr   string
}

func (e *FetchError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command '%s' failed with %s", e.Command, e.Status)
	}
	return fmt.Sprintf("command '%s' failed with %s: %s", e.Command, e.Status, e.Stderr)
}

// DecodeError is returned when the credential command succeeded but its
// output is not valid UTF-8.
type DecodeError struct {
	ID      string
	Command string

	// Offset is the index of the first invalid byte.
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("output of '%s' is not valid UTF-8 (invalid byte at offset %d)", e.Command, e.Offset)
}

// LaunchError is returned when the credential command could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to execute '%s': %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
