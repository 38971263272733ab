package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fbz-tec/sqlitexport/internal/logger"
)

const fileBufferSize = 256 * 1024

func newFileWriter(path string) (io.WriteCloser, error) {
	logger.Debug("Creating output file: %s", path)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	return newBufferedWriteCloser(file, fileBufferSize), nil
}
