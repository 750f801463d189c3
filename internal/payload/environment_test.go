package payload_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rbwchain/rbwchain/env"
	"github.com/rbwchain/rbwchain/internal/payload"
	"github.com/rbwchain/rbwchain/version"
)

func TestIdentityEnv(t *testing.T) {
	t.Parallel()

	got := payload.IdentityEnv("db", false).Dump()
	want := map[string]string{
		"RBWCHAIN_VERSION":     version.Version(),
		"RBWCHAIN_SECRET_NOTE": "db",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("payload.IdentityEnv(db, false) diff (-got +want):\n%s", diff)
	}

	got = payload.IdentityEnv("db", true).Dump()
	want["RBWCHAIN_DEBUG"] = "1"
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("payload.IdentityEnv(db, true) diff (-got +want):\n%s", diff)
	}
}

func TestParsedEnvParsedWins(t *testing.T) {
	t.Parallel()

	parsed := env.FromMap(map[string]string{
		"RBWCHAIN_SECRET_NOTE": "overridden",
		"DB_USER":              "alice",
	})

	got := payload.ParsedEnv("db", false, parsed).Dump()
	want := map[string]string{
		"RBWCHAIN_VERSION":     version.Version(),
		"RBWCHAIN_SECRET_NOTE": "overridden",
		"DB_USER":              "alice",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("payload.ParsedEnv() diff (-got +want):\n%s", diff)
	}
}

func TestFileEnv(t *testing.T) {
	t.Parallel()

	spec := payload.FileSpec{Name: "TLS_CERT", Suffix: ".pem"}
	staged, err := payload.Stage("cert body text", spec)
	if err != nil {
		t.Fatalf("payload.Stage() error = %v", err)
	}
	t.Cleanup(func() { staged.Remove() }) //nolint:errcheck // best effort

	got := payload.FileEnv("tls", false, spec, staged).Dump()
	want := map[string]string{
		"RBWCHAIN_VERSION":     version.Version(),
		"RBWCHAIN_SECRET_NOTE": "tls",
		"TLS_CERT":             staged.Path(),
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("payload.FileEnv() diff (-got +want):\n%s", diff)
	}
}
