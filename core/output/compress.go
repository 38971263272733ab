package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type codec struct {
	name string
	ext  string
	wrap func(w io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]codec{
	GZIP: {name: "gzip", ext: ".gz", wrap: func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	}},
	ZSTD: {name: "zstd", ext: ".zst", wrap: func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w)
	}},
	LZ4: {name: "lz4", ext: ".lz4", wrap: func(w io.Writer) (io.WriteCloser, error) {
		return lz4.NewWriter(w), nil
	}},
}

// newCompressedWriter creates path and streams through the codec.
// Closing finalizes the stream before the file handle.
func newCompressedWriter(path string, c codec) (io.WriteCloser, error) {
	start := time.Now()
	logger.Debug("Creating %s-compressed output file: %s", c.name, path)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	buffered := newBufferedWriteCloser(file, fileBufferSize)

	cw, err := c.wrap(buffered)
	if err != nil {
		buffered.Close()
		return nil, fmt.Errorf("error creating %s writer: %w", c.name, err)
	}

	return &compositeWriteCloser{
		Writer: cw,
		closeFunc: func() error {
			err := closeAll(cw, buffered)
			logger.Debug("%s file %s closed in %v", c.name, path, time.Since(start))
			return err
		},
	}, nil
}
