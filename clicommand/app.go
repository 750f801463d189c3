package clicommand

import (
	"os"

	"github.com/rbwchain/rbwchain/version"
	"github.com/urfave/cli"
)

const appHelpTemplate = `Usage:

  {{.UsageText}}

Description:

   {{.Description}}

Options:

   {{range .VisibleFlags}}{{.}}
   {{end}}
`

// HelpFlag stands in for urfave/cli's help command, which would otherwise
// take "help" and "h" in the identifier position.
var HelpFlag = cli.BoolFlag{
	Name:  "help, h",
	Usage: "Show help",
}

// NewApp returns the rbwchain application with action as its only action.
// The first positional argument is always the secret identifier.
func NewApp(action cli.ActionFunc) *cli.App {
	app := cli.NewApp()
	app.Name = "rbwchain"
	app.Usage = "Run a command with secrets from rbw"
	app.UsageText = RunUsageText
	app.Description = RunDescription
	app.CustomAppHelpTemplate = appHelpTemplate
	app.Version = version.FullVersion()
	app.ErrWriter = os.Stderr
	app.HideHelp = true
	app.Flags = append(append([]cli.Flag{}, RunFlags...), HelpFlag)
	app.Action = func(c *cli.Context) error {
		if c.Bool("help") {
			return cli.ShowAppHelp(c)
		}
		return action(c)
	}
	return app
}
