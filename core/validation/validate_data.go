package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fbz-tec/sqlitexport/core/formatters"
)

// ValidateTimeZone checks if a timezone string is valid.
// Empty string is considered valid (times keep their own zone).
func ValidateTimeZone(timezone string) error {
	if timezone == "" {
		return nil
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return nil
}

// ValidateTimeFormat validates that a time format string is valid by testing it with a known time.
func ValidateTimeFormat(format string) error {
	if format == "" {
		return fmt.Errorf("time format cannot be empty")
	}

	testTime := time.Date(2006, 1, 2, 15, 4, 5, 123456789, time.UTC)
	layout := formatters.ConvertUserTimeFormat(format)

	formatted := testTime.Format(layout)
	if _, err := time.Parse(layout, formatted); err != nil {
		return fmt.Errorf("invalid time format %q: %w", format, err)
	}

	return nil
}

// ParseSeparator turns a flag value into a single rune. The escape `\t`
// is accepted for tab since a literal tab is awkward on a command line.
func ParseSeparator(kind, value string) (rune, error) {
	if value == `\t` || value == "\t" {
		return '\t', nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%s cannot be empty", kind)
	}

	runes := []rune(value)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%s must be a single character (use \\t for tab)", kind)
	}

	if runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("%s cannot be a line break", kind)
	}

	return runes[0], nil
}
