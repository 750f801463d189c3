package process

import (
	"os"
	"syscall"
)

// Windows delivers Ctrl-C to every process attached to the console, and a
// child cannot be sent an interrupt, so nothing is forwarded.
var (
	interceptedSignals = []os.Signal{os.Interrupt}
	forwardedSignals   = []os.Signal{}
)

// os.Process.Signal on Windows only supports Kill.
var contextCancelSignal = os.Kill

// SignalString returns the Go description of s.
func SignalString(s syscall.Signal) string {
	return s.String()
}
