// Package process runs a single child process with inherited streams and
// reports how it terminated.
//
// It is intended for internal use by rbwchain only.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rbwchain/rbwchain/logger"
)

// WaitStatus is how the child terminated. On Unix and Windows it is a
// syscall.WaitStatus.
type WaitStatus interface {
	ExitStatus() int
	Exited() bool
	Signaled() bool
	Signal() syscall.Signal
}

// Config describes the child process.
type Config struct {
	Path string
	Args []string
	Env  []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ForwardSignals intercepts termination signals sent to this process
	// while the child runs. Some are passed on to the child (see
	// forwardedSignals), the rest are swallowed so that this process
	// outlives the child.
	ForwardSignals bool
}

// Process is a child process. Run it once.
type Process struct {
	pid    int
	logger logger.Logger
	conf   Config

	mu      sync.Mutex
	command *exec.Cmd
	status  WaitStatus
	done    chan struct{}
}

// New returns a new instance of Process
func New(l logger.Logger, c Config) *Process {
	if l == nil {
		l = logger.Discard
	}
	return &Process{
		logger: l,
		conf:   c,
		done:   make(chan struct{}),
	}
}

// WaitStatus returns how the child terminated. It is only meaningful after
// Run has returned nil.
func (p *Process) WaitStatus() WaitStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == nil {
		return indeterminate{}
	}
	return p.status
}

// Run starts the child and blocks until it exits. An error is returned only
// if the child could not be started or waited for; a non-zero exit is
// reported through WaitStatus. Cancelling ctx sends the child the same
// signal as an intercepted termination request.
func (p *Process) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.command != nil {
		p.mu.Unlock()
		return errors.New("process is already running")
	}

	p.command = exec.Command(p.conf.Path, p.conf.Args...)
	p.command.Env = p.conf.Env
	p.command.Stdin = p.conf.Stdin
	p.command.Stdout = p.conf.Stdout
	p.command.Stderr = p.conf.Stderr
	p.mu.Unlock()

	// Intercept before starting so that there is no window in which a
	// signal kills this process but not the child.
	var signals chan os.Signal
	if p.conf.ForwardSignals {
		signals = make(chan os.Signal, 1)
		signal.Notify(signals, interceptedSignals...)
		defer signal.Stop(signals)
	}

	p.logger.Debug("[Process] Starting %s", p.conf.Path)

	if err := p.command.Start(); err != nil {
		close(p.done)
		return err
	}

	p.mu.Lock()
	p.pid = p.command.Process.Pid
	p.mu.Unlock()

	pl := p.logger.WithFields(logger.IntField("pid", p.pid))
	pl.Debug("[Process] Process is running")

	go p.relay(ctx, signals)

	waitErr := p.command.Wait()

	p.mu.Lock()
	if ws, ok := p.command.ProcessState.Sys().(syscall.WaitStatus); ok {
		p.status = ws
	}
	p.mu.Unlock()

	close(p.done)

	if waitErr != nil {
		if exitErr := new(exec.ExitError); errors.As(waitErr, &exitErr) {
			pl.Debug("[Process] Process finished with %s", exitErr.ProcessState)
			return nil
		}
		return fmt.Errorf("waiting for process %d: %w", p.pid, waitErr)
	}

	pl.Debug("[Process] Process finished with %s", p.command.ProcessState)
	return nil
}

// relay passes intercepted signals to the child until it exits.
func (p *Process) relay(ctx context.Context, signals <-chan os.Signal) {
	ctxDone := ctx.Done()
	for {
		select {
		case <-p.done:
			return

		case <-ctxDone:
			ctxDone = nil
			if err := p.Signal(contextCancelSignal); err != nil {
				p.logger.Debug("[Process] Failed to signal cancelled process: %v", err)
			}

		case sig := <-signals:
			if !isForwarded(sig) {
				p.logger.Debug("[Process] Ignoring %v while waiting for PID: %d", sig, p.pid)
				continue
			}
			if err := p.Signal(sig); err != nil {
				p.logger.Debug("[Process] Failed to forward %v: %v", sig, err)
			}
		}
	}
}

// Signal sends sig to the child, if it is running.
func (p *Process) Signal(sig os.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.command == nil || p.command.Process == nil {
		p.logger.Debug("[Process] No process to signal yet")
		return nil
	}

	select {
	case <-p.done:
		return nil
	default:
	}

	p.logger.Debug("[Process] Sending signal: %v to PID: %d", sig, p.pid)
	return p.command.Process.Signal(sig)
}

func isForwarded(sig os.Signal) bool {
	for _, s := range forwardedSignals {
		if s == sig {
			return true
		}
	}
	return false
}

// indeterminate is reported when the platform gave no usable status.
type indeterminate struct{}

func (indeterminate) ExitStatus() int        { return -1 }
func (indeterminate) Exited() bool           { return false }
func (indeterminate) Signaled() bool         { return false }
func (indeterminate) Signal() syscall.Signal { return -1 }
