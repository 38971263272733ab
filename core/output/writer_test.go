package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func writeAll(t *testing.T, cfg OutputConfig, data string) {
	t.Helper()
	w, err := CreateWriter(cfg)
	if err != nil {
		t.Fatalf("CreateWriter() error = %v", err)
	}
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func readBack(t *testing.T, path, compression string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	var r io.Reader
	switch compression {
	case None:
		r = f
	case GZIP:
		gz, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		defer gz.Close()
		r = gz
	case ZSTD:
		zr, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		defer zr.Close()
		r = zr
	case LZ4:
		r = lz4.NewReader(f)
	default:
		t.Fatalf("unexpected compression %q", compression)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

func TestCreateWriter_Compressions(t *testing.T) {
	data := "id,name\r\n1,Alice\r\n2,Bob\r\n"

	tests := []struct {
		compression string
		wantPath    string
	}{
		{None, "users.csv"},
		{GZIP, "users.csv.gz"},
		{ZSTD, "users.csv.zst"},
		{LZ4, "users.csv.lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "users.csv")

			writeAll(t, OutputConfig{Path: path, Compression: tt.compression}, data)

			want := filepath.Join(dir, tt.wantPath)
			if got := ResolvePath(path, tt.compression); got != want {
				t.Errorf("ResolvePath() = %q, want %q", got, want)
			}
			if got := readBack(t, want, tt.compression); got != data {
				t.Errorf("content = %q, want %q", got, data)
			}
		})
	}
}

func TestCreateWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")

	writeAll(t, OutputConfig{Path: path, Compression: None}, "a much longer first version\r\n")
	writeAll(t, OutputConfig{Path: path, Compression: None}, "short\r\n")

	if got := readBack(t, path, None); got != "short\r\n" {
		t.Errorf("content = %q, want %q", got, "short\r\n")
	}
}

func TestCreateWriter_AlreadyHasExtension(t *testing.T) {
	tests := []struct {
		compression string
		name        string
	}{
		{GZIP, "t.csv.gz"},
		{ZSTD, "t.csv.zst"},
		{LZ4, "t.csv.LZ4"},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			writeAll(t, OutputConfig{Path: path, Compression: tt.compression}, "x")

			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected %s to exist: %v", path, err)
			}
			if got := ResolvePath(path, tt.compression); got != path {
				t.Errorf("ResolvePath() = %q, want unchanged %q", got, path)
			}
		})
	}
}

func TestCreateWriter_ZIP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Users.csv")
	data := "id\r\n1\r\n"

	writeAll(t, OutputConfig{Path: path, Compression: ZIP}, data)

	archive := filepath.Join(dir, "Users.zip")
	if got := ResolvePath(path, ZIP); got != archive {
		t.Errorf("ResolvePath() = %q, want %q", got, archive)
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("Failed to open zip file: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 {
		t.Fatalf("Expected 1 file in zip, got %d", len(zr.File))
	}
	if zr.File[0].Name != "Users.csv" {
		t.Errorf("entry name = %q, want %q", zr.File[0].Name, "Users.csv")
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("Failed to open zip entry: %v", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != data {
		t.Errorf("Zip content = %q, want %q", string(content), data)
	}
}

func TestCreateWriter_InvalidCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")

	_, err := CreateWriter(OutputConfig{Path: path, Compression: "bzip2"})
	if err == nil {
		t.Fatal("CreateWriter() expected error for invalid compression, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported compression") {
		t.Errorf("Error message should contain 'unsupported compression', got: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an invalid compression")
	}
}

func TestCreateWriter_CompressionCaseAndWhitespace(t *testing.T) {
	for _, c := range []string{"GZIP", "  gzip  ", "GzIp", "", "NONE", "ZsTd"} {
		t.Run(c, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "t.csv")
			writeAll(t, OutputConfig{Path: path, Compression: c}, "x")
			if _, err := os.Stat(ResolvePath(path, c)); err != nil {
				t.Errorf("expected output at %s: %v", ResolvePath(path, c), err)
			}
		})
	}
}

func TestCreateWriter_Encoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    string
		want     []byte
	}{
		{"utf-8 passthrough", "utf-8", "café", []byte("café")},
		{"latin1", "latin1", "café", []byte{'c', 'a', 'f', 0xe9}},
		{"windows-1252 label", "Windows-1252", "€", []byte{0x80}},
		{"utf-16le", "utf-16le", "hi", []byte{'h', 0, 'i', 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "t.csv")
			writeAll(t, OutputConfig{Path: path, Compression: None, Encoding: tt.encoding}, tt.input)

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("bytes = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestCreateWriter_EncodingWithCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	writeAll(t, OutputConfig{Path: path, Compression: GZIP, Encoding: "latin1"}, "é")

	if got := readBack(t, path+".gz", GZIP); got != "\xe9" {
		t.Errorf("content = %q, want %q", got, "\xe9")
	}
}

func TestCreateWriter_UnknownEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	if _, err := CreateWriter(OutputConfig{Path: path, Encoding: "klingon"}); err == nil {
		t.Fatal("CreateWriter() expected error for unknown encoding")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an unknown encoding")
	}
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", "utf-8"},
		{"UTF8", "utf-8"},
		{"latin1", "windows-1252"},
		{"iso-8859-15", "iso-8859-15"},
	}
	for _, tt := range tests {
		_, name, err := LookupEncoding(tt.label)
		if err != nil {
			t.Errorf("LookupEncoding(%q) error = %v", tt.label, err)
			continue
		}
		if name != tt.want {
			t.Errorf("LookupEncoding(%q) name = %q, want %q", tt.label, name, tt.want)
		}
	}
}

func TestValidateCompression(t *testing.T) {
	for _, c := range []string{"none", "gzip", "zip", "zstd", "lz4", "GZIP", ""} {
		if err := ValidateCompression(c); err != nil {
			t.Errorf("ValidateCompression(%q) error = %v", c, err)
		}
	}
	if err := ValidateCompression("rar"); err == nil {
		t.Error("ValidateCompression(rar) expected error")
	}
}

func TestCompositeWriteCloser_NilCloseFunc(t *testing.T) {
	var buf bytes.Buffer
	writer := &compositeWriteCloser{Writer: &buf}

	if err := writer.Close(); err != nil {
		t.Errorf("Close() with nil closeFunc should not error, got: %v", err)
	}
}

func TestFixExtension(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   string
		want  string
	}{
		{"no extension", "data", ".zip", "data.zip"},
		{"replace extension", "data.csv", ".zip", "data.zip"},
		{"already correct zip", "data.csv.zip", ".zip", "data.csv.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixExtension(tt.input, tt.ext); got != tt.want {
				t.Errorf("fixExtension(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
			}
		})
	}
}

func BenchmarkCreateWriter_GZIP(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, "bench.csv")
	for i := 0; i < b.N; i++ {
		w, _ := CreateWriter(OutputConfig{Path: path, Compression: GZIP})
		w.Write([]byte("test,data,row\r\n"))
		w.Close()
	}
}
