package clicommand

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rbwchain/rbwchain/internal/credential"
	"github.com/rbwchain/rbwchain/internal/wrapper"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/urfave/cli"
)

const RunUsageText = `rbwchain [options...] SECRET_IDENTIFIER COMMAND [ARGS...]`

const RunDescription = `Runs COMMAND with a secret fetched from the credential command (rbw by
   default).

   By default the secret is read as KEY=VALUE lines, which are added to the
   command's environment. Blank lines and lines starting with # are ignored.

   With --file NAME[.EXT], the secret is written as-is to a temporary file
   (ending in .EXT) and NAME is set to its path. The file is removed once the
   command exits.

   Everything after SECRET_IDENTIFIER is passed to the command untouched, so
   options for rbwchain must come first. rbwchain exits with the command's
   exit code, or 128 plus the signal number if the command was killed.

Example:

   $ rbwchain db psql
   $ rbwchain --file KUBECONFIG.yaml k8s-prod kubectl get pods
   $ rbwchain --credential-command "pass show" aws/ci aws sts get-caller-identity`

type RunConfig struct {
	SecretID string   `cli:"arg:0" label:"SECRET_IDENTIFIER" validate:"required"`
	Command  string   `cli:"arg:1" label:"COMMAND" validate:"required"`
	Args     []string `cli:"arg:2+"`

	File              string `cli:"file"`
	CredentialCommand string `cli:"credential-command" validate:"required"`

	// Global flags
	Config    string `cli:"config" normalize:"filepath"`
	Debug     bool   `cli:"debug"`
	NoColor   bool   `cli:"no-color"`
	LogFormat string `cli:"log-format" normalize:"lowercase" validate:"oneof=text|json"`
}

var FileFlag = cli.StringFlag{
	Name:   "file, f",
	Usage:  "Write the secret to a temporary file and set `NAME[.EXT]` to its path, instead of parsing KEY=VALUE lines",
	EnvVar: "RBWCHAIN_FILE",
}

var CredentialCommandFlag = cli.StringFlag{
	Name:   "credential-command",
	Value:  credential.DefaultCommand,
	Usage:  "The command that prints a secret, run with the identifier as its last argument",
	EnvVar: "RBWCHAIN_CREDENTIAL_COMMAND",
}

// RunFlags are the application's flags.
var RunFlags = append([]cli.Flag{
	FileFlag,
	CredentialCommandFlag,
}, globalFlags...)

// Stdio is the set of streams the child inherits.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunAction returns the application's action.
func RunAction(ctx context.Context) cli.ActionFunc {
	return NewConfigAndLogger(ctx, &RunConfig{}, &Action[RunConfig]{
		Action: func(ctx context.Context, c *cli.Context, l logger.Logger, r *logger.Redactor, cfg *RunConfig) error {
			return Run(ctx, l, r, *cfg, Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
		},
	})
}

// Run checks for the credential command, then fetches the secret and runs
// the child. Every failure is reported through l, and the returned error is
// always a *SilentExitError, or nil when the child exited 0.
func Run(ctx context.Context, l logger.Logger, r *logger.Redactor, cfg RunConfig, stdio Stdio) error {
	fetcher, err := credential.NewFetcher(l, cfg.CredentialCommand)
	if err != nil {
		l.Error("%v", err)
		return NewSilentExitError(1)
	}

	if err := fetcher.CheckInstalled(); err != nil {
		if prereqErr := new(credential.PrerequisiteError); errors.As(err, &prereqErr) {
			l.Error("%v\n%s", prereqErr, prereqErr.Hint())
		} else {
			l.Error("%v", err)
		}
		return NewSilentExitError(1)
	}

	l.Debug("Debug mode enabled")

	runner := &wrapper.Runner{
		Fetcher:        fetcher,
		Logger:         l,
		Redactor:       r,
		Stdin:          stdio.Stdin,
		Stdout:         stdio.Stdout,
		Stderr:         stdio.Stderr,
		ForwardSignals: true,
	}

	code, err := runner.Run(ctx, wrapper.Invocation{
		SecretID: cfg.SecretID,
		Command:  cfg.Command,
		Args:     cfg.Args,
		File:     cfg.File,
		Debug:    cfg.Debug,
	})
	if err != nil {
		l.Error("%v", err)
		return NewSilentExitError(1)
	}

	if code == 0 {
		return nil
	}
	return NewSilentExitError(code)
}
