package wrapper

import (
	"errors"
	"fmt"

	"github.com/rbwchain/rbwchain/process"
)

// ErrAbnormalTermination is returned when the child's status carries
// neither an exit code nor a terminating signal.
var ErrAbnormalTermination = errors.New("child process terminated abnormally")

// signalExitBase is added to a terminating signal's number, as shells do.
const signalExitBase = 128

// ExitCode translates how the child terminated into the wrapper's exit
// code. signaled reports whether the code was derived from a signal.
func ExitCode(ws process.WaitStatus) (code int, signaled bool, err error) {
	switch {
	case ws == nil:
		return 1, false, ErrAbnormalTermination
	case ws.Exited():
		return ws.ExitStatus(), false, nil
	case ws.Signaled():
		return signalExitBase + int(ws.Signal()), true, nil
	default:
		return 1, false, ErrAbnormalTermination
	}
}

// describeStatus is a log-friendly version of ws.
func describeStatus(ws process.WaitStatus) string {
	switch {
	case ws.Exited():
		return fmt.Sprintf("exit status %d", ws.ExitStatus())
	case ws.Signaled():
		return fmt.Sprintf("signal %d (%s)", int(ws.Signal()), process.SignalString(ws.Signal()))
	default:
		return "unknown"
	}
}

// LaunchError is returned when the child process could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to execute command '%s': %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
