package payload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rbwchain/rbwchain/internal/tempfile"
)

// StagedFilePrefix starts the name of every staged file.
const StagedFilePrefix = "rbwchain-"

// StagedFile is a temporary file holding the secret content. The owner
// must call Remove once the child process has exited.
type StagedFile struct {
	path   string
	size   int
	once   sync.Once
	remErr error
}

// Stage writes content to a new temporary file readable only by the
// current user. The file is synced and closed before Stage returns, so a
// child started afterwards sees every byte. On failure nothing is left
// behind.
func Stage(content string, spec FileSpec) (*StagedFile, error) {
	f, err := tempfile.New(
		tempfile.WithPrefix(StagedFilePrefix),
		tempfile.WithSuffix(spec.Suffix),
		tempfile.WithPerms(0o600),
	)
	if err != nil {
		return nil, &IOError{Op: "create", Err: err}
	}

	path, err := filepath.Abs(f.Name())
	if err != nil {
		path = f.Name()
	}

	fail := func(op string, err error) (*StagedFile, error) {
		f.Close()       //nolint:errcheck // the original error is the one to report
		os.Remove(path) //nolint:errcheck // best effort
		return nil, &IOError{Op: op, Path: path, Err: err}
	}

	if _, err := f.WriteString(content); err != nil {
		return fail("write", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path) //nolint:errcheck // best effort
		return nil, &IOError{Op: "close", Path: path, Err: err}
	}

	return &StagedFile{path: path, size: len(content)}, nil
}

// Path is the absolute path of the staged file.
func (s *StagedFile) Path() string {
	return s.path
}

// Size is the number of bytes written.
func (s *StagedFile) Size() int {
	return s.size
}

// Remove deletes the staged file. Calling it more than once is safe and
// returns the result of the first call. A file that is already gone is not
// an error.
func (s *StagedFile) Remove() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.remErr = &IOError{Op: "remove", Path: s.path, Err: err}
		}
	})
	return s.remErr
}
