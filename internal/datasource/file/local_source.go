// Package file implements the local-filesystem data source that feeds the
// extract stage. The steps report reads its employees Parquet dataset from
// disk, so this is the only source kind the pipeline ships with.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local reads one file from the local disk. The zero value is unusable; build
// it with NewLocal from the pipeline's source.file.path.
type Local struct{ path string }

// NewLocal binds a source to a filesystem path. Path validation happens at
// Open time so a misconfigured pipeline fails with a wrapped error instead of
// a later nil read.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open returns the file as an io.ReadCloser. A canceled context short-circuits
// before the filesystem is touched; open failures are wrapped with the path
// and keep the underlying error visible to errors.Is (os.ErrNotExist in
// particular, since a missing input file is the common misconfiguration).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.path == "" {
		return nil, fmt.Errorf("file source: path must not be empty")
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
