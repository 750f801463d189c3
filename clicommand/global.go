package clicommand

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/oleiade/reflections"
	"github.com/rbwchain/rbwchain/internal/osutil"
	"github.com/rbwchain/rbwchain/logger"
	"github.com/urfave/cli"
)

var ConfigFlag = cli.StringFlag{
	Name:   "config",
	Value:  "",
	Usage:  "Path to a configuration file",
	EnvVar: "RBWCHAIN_CONFIG",
}

// DebugFlag reads RBWCHAIN_DEBUG_MODE. RBWCHAIN_DEBUG is only ever set for
// the child, so a nested rbwchain does not inherit debug mode.
var DebugFlag = cli.BoolFlag{
	Name:   "debug, d",
	Usage:  "Enable debug diagnostics on stderr (secret values are never printed)",
	EnvVar: "RBWCHAIN_DEBUG_MODE",
}

var NoColorFlag = cli.BoolFlag{
	Name:   "no-color",
	Usage:  "Don't show colors in diagnostics",
	EnvVar: "RBWCHAIN_NO_COLOR",
}

var LogFormatFlag = cli.StringFlag{
	Name:   "log-format",
	Usage:  "The format to use for diagnostics, either text or json",
	Value:  "text",
	EnvVar: "RBWCHAIN_LOG_FORMAT",
}

var globalFlags = []cli.Flag{
	ConfigFlag,
	DebugFlag,
	NoColorFlag,
	LogFormatFlag,
}

// CreateLogger builds the diagnostic logger described by cfg's Debug,
// NoColor and LogFormat fields. Errors are always shown; debug mode shows
// everything.
func CreateLogger(cfg any, r *logger.Redactor, w io.Writer) logger.Logger {
	if w == nil {
		w = os.Stderr
	}

	var printer logger.Printer

	logFormat, err := reflections.GetField(cfg, "LogFormat")
	if err == nil && logFormat == "json" {
		p := logger.NewJSONPrinter(w)
		p.Redactor = r
		printer = p
	} else {
		p := logger.NewTextPrinter(w)
		p.Redactor = r
		// Only colour when writing to the real stderr
		p.Colors = w == io.Writer(os.Stderr) && p.Colors
		if noColor, err := reflections.GetField(cfg, "NoColor"); err == nil && noColor == true {
			p.Colors = false
		}
		printer = p
	}

	l := logger.NewConsoleLogger(printer, os.Exit)
	l.SetLevel(logger.ERROR)

	if debug, err := reflections.GetField(cfg, "Debug"); err == nil && debug == true {
		l.SetLevel(logger.DEBUG)
	}

	return l
}

// DefaultConfigFilePaths lists where a config file is looked for when
// --config is not given. The first one that exists is used.
func DefaultConfigFilePaths() (paths []string) {
	if runtime.GOOS == "windows" {
		if dir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(dir, "rbwchain", "rbwchain.cfg"))
		}
		return paths
	}

	if dir, err := osutil.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "rbwchain", "rbwchain.cfg"))
	}
	// ~/.config is still checked when XDG_CONFIG_HOME points elsewhere.
	if home, err := osutil.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "rbwchain", "rbwchain.cfg")
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	return append(paths, "/etc/rbwchain/rbwchain.cfg")
}
