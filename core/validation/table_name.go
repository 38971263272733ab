package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateTableName checks that a table name can be used as an output file
// name inside the destination directory. Names that contain path separators,
// traversal forms or control characters are rejected.
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("table name cannot be empty")
	}

	if name == "." || name == ".." {
		return fmt.Errorf("table name %q is a path traversal sequence", name)
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("table name %q contains a path separator", name)
	}

	for _, r := range name {
		if r == 0 || unicode.IsControl(r) {
			return fmt.Errorf("table name %q contains a control character", name)
		}
	}

	return nil
}

// ValidateTableNames validates every name and reports the first offender.
func ValidateTableNames(names []string) error {
	for _, name := range names {
		if err := ValidateTableName(name); err != nil {
			return err
		}
	}
	return nil
}
