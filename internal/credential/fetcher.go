package credential

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/buildkite/shellwords"
	"github.com/dustin/go-humanize"
	"github.com/rbwchain/rbwchain/internal/osutil"
	"github.com/rbwchain/rbwchain/logger"
)

// DefaultCommand is the credential command line used when none is
// configured.
const DefaultCommand = "rbw get"

// Fetcher runs the credential command for a secret identifier.
type Fetcher struct {
	// Command is the executable name or path, and Args are passed before
	// the identifier.
	Command string
	Args    []string

	Logger logger.Logger

	// Getenv is used to read PATH and PATHEXT for CheckInstalled. Defaults
	// to os.Getenv.
	Getenv func(string) string
}

// NewFetcher builds a Fetcher from a shell-style command line such as
// "rbw get" or "pass show".
func NewFetcher(l logger.Logger, commandLine string) (*Fetcher, error) {
	name, args, err := ParseCommand(commandLine)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		Command: name,
		Args:    args,
		Logger:  l,
	}, nil
}

// ParseCommand splits a credential command line into the executable and
// its leading arguments.
func ParseCommand(commandLine string) (string, []string, error) {
	words, err := shellwords.Split(commandLine)
	if err != nil {
		return "", nil, fmt.Errorf("parsing credential command %q: %w", commandLine, err)
	}
	if len(words) == 0 || words[0] == "" {
		return "", nil, errors.New("credential command is empty")
	}
	return words[0], words[1:], nil
}

// CheckInstalled reports a *PrerequisiteError if the credential command
// cannot be found on PATH.
func (f *Fetcher) CheckInstalled() error {
	getenv := f.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	path, err := osutil.LookPath(f.Command, getenv("PATH"), getenv("PATHEXT"))
	if err != nil {
		return &PrerequisiteError{Command: f.Command, Err: err}
	}

	f.logger().Debug("Found credential command at %s", path)
	return nil
}

// Fetch runs the credential command with id as its last argument and
// returns its stdout. It blocks until the command exits.
func (f *Fetcher) Fetch(ctx context.Context, id string) (string, error) {
	args := append(slices.Clone(f.Args), id)
	display := f.commandLine(args)

	f.logger().Debug("Fetching secret content: %s", display)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, f.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr := new(exec.ExitError); errors.As(err, &exitErr) {
			return "", &FetchError{
				ID:       id,
				Command:  display,
				ExitCode: exitErr.ExitCode(),
				Status:   exitErr.ProcessState.String(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", &LaunchError{Command: display, Err: err}
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", &DecodeError{
			ID:      id,
			Command: display,
			Offset:  invalidOffset(out),
		}
	}

	f.logger().Debug("Fetched %s of secret content", humanize.Bytes(uint64(len(out))))
	return string(out), nil
}

func (f *Fetcher) commandLine(args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, shellwords.Quote(f.Command))
	for _, a := range args {
		quoted = append(quoted, shellwords.Quote(a))
	}
	return strings.Join(quoted, " ")
}

func (f *Fetcher) logger() logger.Logger {
	if f.Logger == nil {
		return logger.Discard
	}
	return f.Logger
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
