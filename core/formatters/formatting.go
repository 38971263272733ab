package formatters

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeFormat is the layout used for time.Time values when TimeOptions
// carries no format.
const DefaultTimeFormat = "yyyy-MM-dd HH:mm:ss"

var timeFormatReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
	"SSS", "000", // Milliseconds
	"S", "0", // Deciseconds
)

// TimeOptions controls how time values decoded by the driver are rendered.
// An empty Format means values are not decoded and are written as stored.
type TimeOptions struct {
	Format   string
	Location *time.Location
}

// Decode reports whether DATE/DATETIME/TIMESTAMP columns should be decoded
// and re-rendered with Format.
func (o TimeOptions) Decode() bool {
	return o.Format != ""
}

// NewTimeOptions resolves a user time format and an optional IANA zone name.
// An empty zone keeps the value's own location.
func NewTimeOptions(format, zone string) (TimeOptions, error) {
	opts := TimeOptions{Format: format}
	if zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return TimeOptions{}, err
		}
		opts.Location = loc
	}
	return opts, nil
}

func (o TimeOptions) render(t time.Time, declType string) string {
	format := o.Format
	if format == "" {
		format = DefaultTimeFormat
	}
	if strings.EqualFold(declType, "DATE") {
		format = extractUserDateFormat(format)
	} else if o.Location != nil {
		t = t.In(o.Location)
	}
	return t.Format(ConvertUserTimeFormat(format))
}

// FormatCSVValue renders a driver value as delimited-text field content.
// NULL becomes an empty field.
func FormatCSVValue(val any, declType string, opts TimeOptions) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return formatBlob(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return FormatReal(v)
	case float32:
		return FormatReal(float64(v))
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return opts.render(v, declType)
	default:
		return fmt.Sprint(v)
	}
}

// FormatXLSXValue keeps numbers and times native so spreadsheet cells stay typed.
func FormatXLSXValue(val any, declType string, opts TimeOptions) any {
	switch v := val.(type) {
	case nil:
		return nil
	case int64, int, int32, float64, float32, bool:
		return v
	case time.Time:
		if opts.Location != nil {
			return v.In(opts.Location)
		}
		return v
	default:
		return FormatCSVValue(val, declType, opts)
	}
}

// FormatReal prints the shortest representation that round-trips, in plain
// notation for magnitudes in [1e-4, 1e16) and exponent notation otherwise.
// Integral values keep a trailing ".0" so REAL columns stay distinguishable
// from INTEGER ones.
func FormatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	var s string
	if abs := math.Abs(f); f == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// formatBlob returns valid UTF-8 blobs as text and everything else as \x-prefixed hex.
func formatBlob(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return `\x` + hex.EncodeToString(b)
}

func ConvertUserTimeFormat(userTimefmt string) string {
	return timeFormatReplacer.Replace(userTimefmt)
}

// extractUserDateFormat extracts only the date portion from a datetime format string.
// For example, "yyyy-MM-dd HH:mm:ss" becomes "yyyy-MM-dd".
func extractUserDateFormat(userFmt string) string {
	dateTokens := []string{"yyyy", "yy", "MM", "dd"}
	last := -1
	for _, tok := range dateTokens {
		idx := strings.LastIndex(userFmt, tok)
		if idx != -1 {
			end := idx + len(tok)
			if end > last {
				last = end
			}
		}
	}

	if last == -1 {
		return userFmt
	}
	return strings.TrimSpace(userFmt[:last])
}
