package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	None = "none"
	GZIP = "gzip"
	ZIP  = "zip"
	ZSTD = "zstd"
	LZ4  = "lz4"
)

// Compressions lists the accepted compression names.
func Compressions() []string {
	return []string{None, GZIP, ZIP, ZSTD, LZ4}
}

// OutputConfig holds configuration for output file creation.
type OutputConfig struct {
	Path        string
	Compression string
	// Encoding is a text encoding label ("utf-8", "latin1", ...).
	// Empty means the bytes are written unchanged.
	Encoding string
}

// CreateWriter creates the file described by cfg, truncating any existing one.
// Writes pass through the text encoder first, then the compressor.
func CreateWriter(cfg OutputConfig) (io.WriteCloser, error) {
	compression := normalize(cfg.Compression)

	if cfg.Encoding != "" {
		if _, _, err := LookupEncoding(cfg.Encoding); err != nil {
			return nil, err
		}
	}

	var (
		wc  io.WriteCloser
		err error
	)
	switch compression {
	case None:
		wc, err = newFileWriter(cfg.Path)
	case ZIP:
		wc, err = newZipWriter(cfg.Path)
	case GZIP, ZSTD, LZ4:
		wc, err = newCompressedWriter(ResolvePath(cfg.Path, compression), codecs[compression])
	default:
		return nil, fmt.Errorf("unsupported compression type %q", cfg.Compression)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Encoding == "" {
		return wc, nil
	}
	return newEncodingWriter(wc, cfg.Encoding)
}

// ResolvePath returns the on-disk path CreateWriter uses for path and compression.
func ResolvePath(path, compression string) string {
	switch normalize(compression) {
	case ZIP:
		return fixExtension(path, ".zip")
	case GZIP, ZSTD, LZ4:
		ext := codecs[normalize(compression)].ext
		if !strings.HasSuffix(strings.ToLower(path), ext) {
			return path + ext
		}
	}
	return path
}

// ValidateCompression reports whether name is a supported compression.
func ValidateCompression(name string) error {
	n := normalize(name)
	for _, c := range Compressions() {
		if n == c {
			return nil
		}
	}
	return fmt.Errorf("invalid compression %q (valid: %s)", name, strings.Join(Compressions(), ", "))
}

func normalize(compression string) string {
	c := strings.ToLower(strings.TrimSpace(compression))
	if c == "" {
		return None
	}
	return c
}

func fixExtension(path, extension string) string {
	ext := filepath.Ext(path)
	if strings.ToLower(ext) != extension {
		path = path[:len(path)-len(ext)] + extension
	}
	return path
}
