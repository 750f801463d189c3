package wrapper_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/buildkite/bintest/v3"
	"github.com/buildkite/shellwords"
	"github.com/rbwchain/rbwchain/internal/credential"
	"github.com/rbwchain/rbwchain/internal/payload"
	"github.com/rbwchain/rbwchain/internal/wrapper"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerTester struct {
	rbw    *bintest.Mock
	logs   *logger.Buffer
	stdout *bytes.Buffer
	runner *wrapper.Runner
}

func newRunnerTester(t *testing.T, mode string) *runnerTester {
	t.Helper()

	rbw, err := bintest.NewMock(filepath.Join(t.TempDir(), "rbw"))
	require.NoError(t, err)

	rt := &runnerTester{
		rbw:    rbw,
		logs:   logger.NewBuffer(),
		stdout: &bytes.Buffer{},
	}
	rt.runner = &wrapper.Runner{
		Fetcher: &credential.Fetcher{
			Command: rbw.Path,
			Args:    []string{"get"},
			Logger:  rt.logs,
		},
		Logger:   rt.logs,
		Redactor: logger.NewRedactor(),
		Stdout:   rt.stdout,
		Stderr:   os.Stderr,
		Environ:  append(os.Environ(), "TEST_MAIN="+mode),
	}
	return rt
}

func (rt *runnerTester) checkAndClose(t *testing.T) {
	t.Helper()
	rt.rbw.CheckAndClose(t) //nolint:errcheck // bintest logs to t
}

func TestRunParsedMode(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "printenv")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "db").AndWriteToStdout("DB_USER=alice\nDB_PASS=s3cret\n").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "db",
		Command:  os.Args[0],
		Args:     []string{"DB_USER", "DB_PASS", "RBWCHAIN_SECRET_NOTE", "RBWCHAIN_DEBUG"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "alice\ns3cret\ndb\n\n", rt.stdout.String())
}

func TestRunDebugReportsNamesNotValues(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "printenv")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "db").AndWriteToStdout("DB_USER=alice\nDB_PASS=s3cret\n").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "db",
		Command:  os.Args[0],
		Args:     []string{"RBWCHAIN_DEBUG"},
		Debug:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "1\n", rt.stdout.String())

	assert.Contains(t, rt.logs.Messages, "[debug] Injecting 5 environment variable(s) (2 parsed + 3 standard)")
	assert.Contains(t, rt.logs.Messages, "[debug] Variables set: [DB_PASS, DB_USER, RBWCHAIN_DEBUG, RBWCHAIN_SECRET_NOTE, RBWCHAIN_VERSION]")
	assert.Contains(t, rt.logs.Messages,
		"[debug] Executing command command="+strconv.Quote(shellwords.Quote(os.Args[0])+" RBWCHAIN_DEBUG"))
	for _, msg := range rt.logs.Messages {
		assert.NotContains(t, msg, "alice")
		assert.NotContains(t, msg, "s3cret")
	}

	assert.Equal(t, "password: [REDACTED]", rt.runner.Redactor.Redact("password: s3cret"))
}

func TestRunFileMode(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "cat-env")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "tls").AndWriteToStdout("cert body text").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "tls",
		Command:  os.Args[0],
		Args:     []string{"TLS_CERT"},
		File:     "TLS_CERT.pem",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	path, contents, ok := strings.Cut(rt.stdout.String(), "\n")
	require.True(t, ok, "child output = %q", rt.stdout.String())

	assert.True(t, strings.HasSuffix(path, ".pem"), "path = %q, want .pem suffix", path)
	assert.Equal(t, "cert body text", contents)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "os.Stat(%q) error = %v, want not exist", path, err)
}

func TestRunFileModeRemovesFileWhenLaunchFails(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "cat-env")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "tls").AndWriteToStdout("cert body text").AndExitWith(0)

	_, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "tls",
		Command:  filepath.Join(t.TempDir(), "no-such-command"),
		File:     "TLS_CERT.pem",
		Debug:    true,
	})

	launchErr := new(wrapper.LaunchError)
	require.ErrorAs(t, err, &launchErr)

	var removed string
	for _, msg := range rt.logs.Messages {
		if p, ok := strings.CutPrefix(msg, "[debug] Removed temporary file path="); ok {
			removed, err = strconv.Unquote(p)
			require.NoError(t, err)
		}
	}
	require.NotEmpty(t, removed, "no removal was logged: %q", rt.logs.Messages)

	_, err = os.Stat(removed)
	assert.True(t, os.IsNotExist(err), "os.Stat(%q) error = %v, want not exist", removed, err)
}

func TestRunFileModeInvalidSpec(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "exit")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "tls").NotCalled()

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "tls",
		Command:  os.Args[0],
		Args:     []string{"0"},
		File:     "A=B.pem",
	})

	configErr := new(payload.ConfigError)
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, 1, code)
	assert.Empty(t, rt.stdout.String())
}

func TestRunFetchFailure(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "exit")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "missing").AndWriteToStderr("not found").AndExitWith(1)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "missing",
		Command:  os.Args[0],
		Args:     []string{"0"},
	})

	fetchErr := new(credential.FetchError)
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, 1, code)

	// The child never started.
	assert.Empty(t, rt.stdout.String())
}

func TestRunRelaysExitCode(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "exit")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "db").AndWriteToStdout("A=1").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "db",
		Command:  os.Args[0],
		Args:     []string{"42"},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, code)
	assert.Equal(t, "started\n", rt.stdout.String())
}

func TestRunRelaysSignal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Processes are not terminated by signals on Windows")
	}
	t.Parallel()

	rt := newRunnerTester(t, "kill-self")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "db").AndWriteToStdout("A=1").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "db",
		Command:  os.Args[0],
		Debug:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 137, code)
	assert.Contains(t, rt.logs.Messages, "[debug] Child process terminated by signal 9 (Exiting with code 137)")
}

func TestRunLaunchFailure(t *testing.T) {
	t.Parallel()

	rt := newRunnerTester(t, "exit")
	defer rt.checkAndClose(t)

	rt.rbw.Expect("get", "db").AndWriteToStdout("A=1").AndExitWith(0)

	code, err := rt.runner.Run(context.Background(), wrapper.Invocation{
		SecretID: "db",
		Command:  "rbwchain-command-that-does-not-exist",
	})

	launchErr := new(wrapper.LaunchError)
	require.ErrorAs(t, err, &launchErr)
	assert.Equal(t, "rbwchain-command-that-does-not-exist", launchErr.Command)
	assert.Equal(t, 1, code)
	assert.False(t, errors.Is(err, wrapper.ErrAbnormalTermination))
}
