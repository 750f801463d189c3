package clicommand

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintMessageAndReturnExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput string
	}{
		{name: "nil", err: nil, wantCode: 0},
		{name: "silent", err: NewSilentExitError(137), wantCode: 137},
		{name: "wrapped silent", err: fmt.Errorf("running: %w", NewSilentExitError(3)), wantCode: 3},
		{
			name:       "exit error",
			err:        NewExitError(2, errors.New("bad config")),
			wantCode:   2,
			wantOutput: "[rbwchain] Error: bad config\n",
		},
		{
			name:       "plain error",
			err:        errors.New("flag provided but not defined: -x"),
			wantCode:   1,
			wantOutput: "[rbwchain] Error: flag provided but not defined: -x\n",
		},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		code := printMessageAndReturnExitCode(&buf, test.err)
		assert.Equal(t, test.wantCode, code, test.name)
		assert.Equal(t, test.wantOutput, buf.String(), test.name)
	}
}

func TestExitErrorIs(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, fmt.Errorf("x: %w", NewSilentExitError(1)), NewSilentExitError(1))
	assert.NotErrorIs(t, NewSilentExitError(1), NewSilentExitError(2))
	assert.ErrorIs(t, NewExitError(1, errors.New("a")), NewExitError(1, errors.New("b")))
}
