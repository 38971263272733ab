package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the text encoding used when none is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "latin1" or "utf-16le" and returns the encoding with its canonical name.
func LookupEncoding(label string) (encoding.Encoding, string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return enc, name, nil
}

// newEncodingWriter transcodes UTF-8 input to the named encoding.
// Characters the target cannot represent make Write fail.
func newEncodingWriter(wc io.WriteCloser, label string) (io.WriteCloser, error) {
	enc, name, err := LookupEncoding(label)
	if err != nil {
		wc.Close()
		return nil, err
	}
	if name == DefaultEncoding {
		return wc, nil
	}

	tw := transform.NewWriter(wc, enc.NewEncoder())
	return &compositeWriteCloser{
		Writer: tw,
		closeFunc: func() error {
			return closeAll(tw, wc)
		},
	}, nil
}
