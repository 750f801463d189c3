//go:build !windows

package process

import (
	"context"
	"os"
	"slices"
	"syscall"
	"testing"

	"github.com/rbwchain/rbwchain/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalStringForKilledChild(t *testing.T) {
	t.Parallel()

	p := New(logger.Discard, Config{
		Path: os.Args[0],
		Env:  append(os.Environ(), "TEST_MAIN=kill-self"),
	})
	require.NoError(t, p.Run(context.Background()))

	ws := p.WaitStatus()
	require.True(t, ws.Signaled())
	assert.Equal(t, "SIGKILL", SignalString(ws.Signal()))
}

func TestSignalStringFallsBackToNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SIGHUP", SignalString(syscall.SIGHUP))
	assert.Equal(t, "200", SignalString(syscall.Signal(200)))
}

func TestForwardedSignals(t *testing.T) {
	t.Parallel()

	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGHUP} {
		assert.True(t, isForwarded(sig), "isForwarded(%v)", sig)
	}
	for _, sig := range []os.Signal{syscall.SIGINT, syscall.SIGQUIT, syscall.SIGUSR1} {
		assert.False(t, isForwarded(sig), "isForwarded(%v)", sig)
	}

	for _, sig := range forwardedSignals {
		assert.True(t, slices.Contains(interceptedSignals, sig), "%v is forwarded but never intercepted", sig)
	}

	// Cancelling the context must look like a forwarded termination request.
	assert.True(t, isForwarded(contextCancelSignal))
}
