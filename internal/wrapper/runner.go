// Package wrapper runs one child process with a secret made available to
// it, and works out the exit code to relay.
package wrapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/dustin/go-humanize"
	"github.com/rbwchain/rbwchain/env"
	"github.com/rbwchain/rbwchain/internal/payload"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/rbwchain/rbwchain/process"
)

// Fetcher returns the secret content for an identifier.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// Invocation is one run of the wrapper.
type Invocation struct {
	SecretID string
	Command  string
	Args     []string

	// File is the NAME[.EXT] value of --file. Empty selects parsed mode.
	File string

	Debug bool
}

// Runner fetches a secret, hands it to a child process and waits for the
// child to exit.
type Runner struct {
	Fetcher Fetcher
	Logger  logger.Logger

	// Redactor receives every secret value before the child starts. May be
	// nil.
	Redactor *logger.Redactor

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the environment the child inherits, before the injected
	// variables are applied. Defaults to os.Environ().
	Environ []string

	// ForwardSignals is passed to process.Config.
	ForwardSignals bool
}

// Run performs fetch, materialize, launch and wait in order, and returns
// the code the wrapper should exit with. On error the code is 1 and the
// error has not been reported yet. A staged file is removed before Run
// returns, and never before the child has exited.
func (r *Runner) Run(ctx context.Context, inv Invocation) (int, error) {
	l := r.Logger
	if l == nil {
		l = logger.Discard
	}

	var spec payload.FileSpec
	fileMode := inv.File != ""
	if fileMode {
		var err error
		if spec, err = payload.ParseFileSpec(inv.File); err != nil {
			return 1, err
		}
	}

	l.Debug("Fetching secret content for note: %q", inv.SecretID)

	content, err := r.Fetcher.Fetch(ctx, inv.SecretID)
	if err != nil {
		return 1, fmt.Errorf("getting secret content for note %q: %w", inv.SecretID, err)
	}

	var injected *env.Environment

	if fileMode {
		l.Debug("Using file mode. Setting environment variable %q", spec.Name)

		r.Redactor.Add(strings.Split(content, "\n")...)

		staged, err := payload.Stage(content, spec)
		if err != nil {
			return 1, err
		}
		fl := l.WithFields(logger.QuotedField("path", staged.Path()))
		defer func() {
			if err := staged.Remove(); err != nil {
				fl.Warn("%v", err)
				return
			}
			fl.Debug("Removed temporary file")
		}()

		fl.Debug("Wrote %s of secret content", humanize.Bytes(uint64(staged.Size())))

		injected = payload.FileEnv(inv.SecretID, inv.Debug, spec, staged)
	} else {
		l.Debug("Using environment variable mode")

		parsed, err := payload.Parse(content, l)
		if err != nil {
			return 1, err
		}

		r.Redactor.Add(parsed.Values()...)

		injected = payload.ParsedEnv(inv.SecretID, inv.Debug, parsed)

		standard := payload.IdentityEnv(inv.SecretID, inv.Debug).Length()
		parsedCount := max(injected.Length()-standard, 0)
		l.Debug("Injecting %d environment variable(s) (%d parsed + %d standard)",
			injected.Length(), parsedCount, injected.Length()-parsedCount)
		l.Debug("Variables set: [%s]", strings.Join(injected.Keys(), ", "))
	}

	environ := r.Environ
	if environ == nil {
		environ = os.Environ()
	}
	childEnv := env.FromSlice(environ)
	childEnv.Merge(injected)

	l.WithFields(logger.QuotedField("command", quoteCommand(inv.Command, inv.Args))).Debug("Executing command")

	proc := process.New(l, process.Config{
		Path:           inv.Command,
		Args:           inv.Args,
		Env:            childEnv.ToSlice(),
		Stdin:          r.Stdin,
		Stdout:         r.Stdout,
		Stderr:         r.Stderr,
		ForwardSignals: r.ForwardSignals,
	})

	if err := proc.Run(ctx); err != nil {
		return 1, &LaunchError{Command: inv.Command, Err: err}
	}

	ws := proc.WaitStatus()
	l.Debug("Command finished with status: %s", describeStatus(ws))

	code, signaled, err := ExitCode(ws)
	if err != nil {
		return 1, err
	}
	if signaled {
		l.Debug("Child process terminated by signal %d (Exiting with code %d)", int(ws.Signal()), code)
	}

	return code, nil
}

func quoteCommand(name string, args []string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, shellwords.Quote(name))
	for _, a := range args {
		words = append(words, shellwords.Quote(a))
	}
	return strings.Join(words, " ")
}
