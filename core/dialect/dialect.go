// Package dialect writes delimited text records with a configurable
// delimiter, quote character and line terminator.
package dialect

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	DefaultDelimiter      = ','
	DefaultQuote          = '"'
	DefaultLineTerminator = "\r\n"
)

// Dialect describes how records are laid out on disk.
type Dialect struct {
	Delimiter      rune
	Quote          rune
	LineTerminator string
}

// Default returns the common CSV dialect: comma, double quote, CRLF.
func Default() Dialect {
	return Dialect{
		Delimiter:      DefaultDelimiter,
		Quote:          DefaultQuote,
		LineTerminator: DefaultLineTerminator,
	}
}

// Validate reports whether the dialect can produce readable output.
func (d Dialect) Validate() error {
	if !validSeparator(d.Delimiter) {
		return fmt.Errorf("invalid delimiter %q", d.Delimiter)
	}
	if !validSeparator(d.Quote) {
		return fmt.Errorf("invalid quote character %q", d.Quote)
	}
	if d.Delimiter == d.Quote {
		return fmt.Errorf("delimiter and quote character must differ (both %q)", d.Delimiter)
	}
	if d.LineTerminator != "\r\n" && d.LineTerminator != "\n" {
		return fmt.Errorf("unsupported line terminator %q", d.LineTerminator)
	}
	return nil
}

func validSeparator(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// ParseLineTerminator accepts "crlf", "lf" or the literal sequences.
func ParseLineTerminator(s string) (string, error) {
	switch s {
	case "\r\n", "\n":
		return s, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "crlf", `\r\n`:
		return "\r\n", nil
	case "lf", `\n`:
		return "\n", nil
	}
	return "", fmt.Errorf("unsupported line terminator %q (use crlf or lf)", s)
}

// Writer emits records using minimal quoting: a field is quoted only when it
// contains the delimiter, the quote character, CR or LF.
type Writer struct {
	d Dialect
	w *bufio.Writer
}

func NewWriter(w io.Writer, d Dialect) *Writer {
	return &Writer{d: d, w: bufio.NewWriter(w)}
}

// Write writes one record followed by the line terminator.
func (w *Writer) Write(record []string) error {
	// a lone empty field would read back as a blank line
	if len(record) == 1 && record[0] == "" {
		if _, err := w.w.WriteString(string(w.d.Quote) + string(w.d.Quote) + w.d.LineTerminator); err != nil {
			return err
		}
		return nil
	}

	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.d.Delimiter); err != nil {
				return err
			}
		}
		if err := w.writeField(field); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString(w.d.LineTerminator)
	return err
}

func (w *Writer) writeField(field string) error {
	if !w.needsQuotes(field) {
		_, err := w.w.WriteString(field)
		return err
	}

	quote := string(w.d.Quote)
	if _, err := w.w.WriteString(quote); err != nil {
		return err
	}
	if _, err := w.w.WriteString(strings.ReplaceAll(field, quote, quote+quote)); err != nil {
		return err
	}
	_, err := w.w.WriteString(quote)
	return err
}

func (w *Writer) needsQuotes(field string) bool {
	if field == "" {
		return false
	}
	return strings.ContainsRune(field, w.d.Delimiter) ||
		strings.ContainsRune(field, w.d.Quote) ||
		strings.ContainsAny(field, "\r\n")
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
