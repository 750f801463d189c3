package payload

import (
	"github.com/rbwchain/rbwchain/env"
	"github.com/rbwchain/rbwchain/version"
)

// Names of the variables the wrapper always injects.
const (
	VersionVar    = "RBWCHAIN_VERSION"
	SecretNoteVar = "RBWCHAIN_SECRET_NOTE"
	DebugVar      = "RBWCHAIN_DEBUG"
)

// IdentityEnv returns the wrapper's own variables: its version and the
// secret identifier, plus a debug marker when debug is on.
func IdentityEnv(id string, debug bool) *env.Environment {
	e := env.New()
	e.Set(VersionVar, version.Version())
	e.Set(SecretNoteVar, id)
	if debug {
		e.Set(DebugVar, "1")
	}
	return e
}

// ParsedEnv overlays parsed variables on the identity variables. Parsed
// variables win.
func ParsedEnv(id string, debug bool, parsed *env.Environment) *env.Environment {
	e := IdentityEnv(id, debug)
	e.Merge(parsed)
	return e
}

// FileEnv overlays the staged file's path, under the spec's name, on the
// identity variables.
func FileEnv(id string, debug bool, spec FileSpec, staged *StagedFile) *env.Environment {
	e := IdentityEnv(id, debug)
	e.Set(spec.Name, staged.Path())
	return e
}
