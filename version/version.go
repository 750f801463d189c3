// Package version provides the rbwchain version strings.
package version

import (
	_ "embed"
	"runtime"
	"strings"
)

// buildVersion can be set at compile time with:
//
//	go build -ldflags "-X github.com/rbwchain/rbwchain/version.buildVersion=abc" .
//
// Release builds always set it.

//go:embed VERSION
var baseVersion string
var buildVersion string

// Version returns the base version from the embedded VERSION file.
func Version() string {
	return strings.TrimSpace(baseVersion)
}

func BuildVersion() string {
	if buildVersion == "" {
		return "x"
	}
	return buildVersion
}

// FullVersion is the string shown by --version.
func FullVersion() string {
	return Version() + "+" + BuildVersion() + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
}
