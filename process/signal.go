//go:build !windows

package process

import (
	"os"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// The terminal delivers SIGINT and SIGQUIT to the whole foreground process
// group, so the child already has them and they are only swallowed here.
// SIGTERM and SIGHUP are usually aimed at this process alone.
var (
	interceptedSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT}
	forwardedSignals   = []os.Signal{syscall.SIGTERM, syscall.SIGHUP}
)

const contextCancelSignal = syscall.SIGTERM

// SignalString returns the conventional name of s, such as "SIGKILL", or
// its number when it has no name.
func SignalString(s syscall.Signal) string {
	if name := unix.SignalName(s); name != "" {
		return name
	}
	return strconv.Itoa(int(s))
}
