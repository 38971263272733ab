package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/klauspost/compress/zip"
)

// newZipWriter writes a single-entry archive. The entry keeps the
// uncompressed file name, the archive replaces its extension with .zip.
func newZipWriter(path string) (io.WriteCloser, error) {
	start := time.Now()
	archivePath := fixExtension(path, ".zip")
	logger.Debug("Creating zip archive: %s", archivePath)

	file, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	zw := zip.NewWriter(file)
	entryName := zipEntryName(path)
	logger.Debug("Creating zip entry: %s", entryName)

	entry, err := zw.Create(entryName)
	if err != nil {
		closeAll(zw, file)
		return nil, fmt.Errorf("error creating zip entry: %w", err)
	}

	return &compositeWriteCloser{
		Writer: entry,
		closeFunc: func() error {
			err := closeAll(zw, file)
			logger.Debug("zip archive %s closed in %v", archivePath, time.Since(start))
			return err
		},
	}, nil
}

func zipEntryName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) || name == ".zip" {
		return "export"
	}
	return name
}
