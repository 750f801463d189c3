package clicommand

import (
	"context"

	"github.com/rbwchain/rbwchain/cliconfig"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/urfave/cli"
)

// Action is the body of a command, run once its config has been loaded
// and its logger created.
type Action[T any] struct {
	Action func(
		ctx context.Context,
		c *cli.Context,
		l logger.Logger,
		r *logger.Redactor,
		cfg *T,
	) error
}

// NewConfigAndLogger returns a cli.ActionFunc that loads cfg, builds the
// logger it asks for, and then calls f.
func NewConfigAndLogger[T any](ctx context.Context, cfg *T, f *Action[T]) cli.ActionFunc {
	return func(c *cli.Context) error {
		loader := cliconfig.Loader{
			CLI:                    c,
			Config:                 cfg,
			DefaultConfigFilePaths: DefaultConfigFilePaths(),
		}
		if err := loader.Load(); err != nil {
			return NewExitError(1, err)
		}

		r := logger.NewRedactor()
		l := CreateLogger(cfg, r, c.App.ErrWriter)

		if loader.File != nil {
			l.Debug("Loaded config file %s", loader.File.Path)
		}

		return f.Action(ctx, c, l, r, cfg)
	}
}
