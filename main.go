// rbwchain runs a command with a secret from a credential store, passed as
// environment variables or as a temporary file.
package main

import (
	"context"
	"os"

	"github.com/rbwchain/rbwchain/clicommand"
)

func main() {
	app := clicommand.NewApp(clicommand.RunAction(context.Background()))

	// The only call to os.Exit. Everything that needs cleaning up has been
	// cleaned up by the time app.Run returns.
	os.Exit(clicommand.PrintMessageAndReturnExitCode(app.Run(os.Args)))
}
