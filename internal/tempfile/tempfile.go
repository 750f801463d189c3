// Package tempfile creates uniquely named temporary files.
package tempfile

import (
	"fmt"
	"io/fs"
	"os"
)

type request struct {
	prefix string
	suffix string
	perm   fs.FileMode
}

type Opts func(*request)

// WithPrefix sets the start of the file name, before the random part.
func WithPrefix(prefix string) Opts {
	return func(tf *request) {
		tf.prefix = prefix
	}
}

// WithSuffix sets the end of the file name, after the random part. Use it
// to give the file an extension such as ".pem".
func WithSuffix(suffix string) Opts {
	return func(tf *request) {
		tf.suffix = suffix
	}
}

// WithPerms sets the permissions of the temporary file.
func WithPerms(perms fs.FileMode) Opts {
	return func(tf *request) {
		tf.perm = perms
	}
}

// New creates a temporary file in the system temporary directory
// ([os.TempDir]) with the provided options. The caller owns the returned
// file and is responsible for closing and removing it.
func New(opts ...Opts) (*os.File, error) {
	req := &request{}

	for _, opt := range opts {
		opt(req)
	}

	dir := os.TempDir()
	tempFile, err := os.CreateTemp(dir, req.prefix+"*"+req.suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file in %q: %w", dir, err)
	}

	if req.perm != 0 {
		if err := tempFile.Chmod(req.perm); err != nil {
			tempFile.Close()           //nolint:errcheck // the chmod error is the one worth reporting
			os.Remove(tempFile.Name()) //nolint:errcheck // best effort, file is empty
			return nil, fmt.Errorf("failed to chmod temporary file %q: %w", tempFile.Name(), err)
		}
	}

	return tempFile, nil
}
