package datasource

import (
	"context"
	"io"
)

// Source abstracts where input bytes come from so the pipeline can be fed
// from local files in production and from in-memory buffers in tests.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
