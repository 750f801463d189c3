package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line      string
		wantKey   string
		wantValue string
	}{
		{line: "debug=true", wantKey: "debug", wantValue: "true"},
		{line: "  log-format = json  ", wantKey: "log-format", wantValue: "json"},
		{line: "log-format: json", wantKey: "log-format", wantValue: "json"},
		{line: "export no-color=1", wantKey: "no-color", wantValue: "1"},
		{line: `credential-command="rbw get --folder ci"`, wantKey: "credential-command", wantValue: "rbw get --folder ci"},
		{line: `credential-command='pass show'`, wantKey: "credential-command", wantValue: "pass show"},
		{line: `file=""`, wantKey: "file", wantValue: ""},
		{line: "log-format=text # the default", wantKey: "log-format", wantValue: "text"},
		{line: "url=https://example.com/a#b", wantKey: "url", wantValue: "https://example.com/a#b"},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			t.Parallel()

			key, value, err := parseLine(test.line)
			if err != nil {
				t.Fatalf("parseLine(%q) error = %v", test.line, err)
			}
			if key != test.wantKey || value != test.wantValue {
				t.Errorf("parseLine(%q) = (%q, %q), want (%q, %q)", test.line, key, value, test.wantKey, test.wantValue)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"no separator here",
		"=value",
		`credential-command="rbw get" extra`,
		`credential-command="unterminated`,
	} {
		if _, _, err := parseLine(line); err == nil {
			t.Errorf("parseLine(%q) error = nil, want non-nil", line)
		}
	}
}

func TestFileLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rbwchain.cfg")
	contents := `# rbwchain settings

debug=true
credential-command="rbw get --folder ci"
log-format: json
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("os.WriteFile(%q) error = %v", path, err)
	}

	f := File{Path: path}
	if !f.Exists() {
		t.Fatalf("File{Path: %q}.Exists() = false, want true", path)
	}
	if err := f.Load(); err != nil {
		t.Fatalf("f.Load() error = %v", err)
	}

	want := map[string]string{
		"debug":              "true",
		"credential-command": "rbw get --folder ci",
		"log-format":         "json",
	}
	if diff := cmp.Diff(f.Config, want); diff != "" {
		t.Errorf("f.Config diff (-got +want):\n%s", diff)
	}
}

func TestFileLoadReportsLineNumber(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rbwchain.cfg")
	if err := os.WriteFile(path, []byte("debug=true\nnonsense\n"), 0o600); err != nil {
		t.Fatalf("os.WriteFile(%q) error = %v", path, err)
	}

	f := File{Path: path}
	assert.ErrorContains(t, f.Load(), "parsing config line 2")
}

func TestFileExistsMissing(t *testing.T) {
	t.Parallel()

	f := File{Path: filepath.Join(t.TempDir(), "nope.cfg")}
	if f.Exists() {
		t.Errorf("File{Path: %q}.Exists() = true, want false", f.Path)
	}
}
