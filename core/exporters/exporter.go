package exporters

import (
	"fmt"

	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/dialect"
	"github.com/fbz-tec/sqlitexport/core/formatters"
)

const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
)

// ExportOptions holds the settings for writing one table to one file.
type ExportOptions struct {
	Format      string
	OutputPath  string
	Dialect     dialect.Dialect
	Encoding    string
	Compression string
	NoHeader    bool
	Time        formatters.TimeOptions
	ProgressBar bool
	// Label names the table in progress output.
	Label string
}

// Exporter writes a row cursor to a file and returns the number of data rows written.
type Exporter interface {
	Export(rows db.Rows, options ExportOptions) (int, error)
	// Extension is the file extension without the leading dot.
	Extension() string
}

// column is the name and declared type of one result column.
type column struct {
	name     string
	declType string
}

// describeColumns reads column names and declared types from the cursor metadata.
func describeColumns(rows db.Rows) ([]column, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}

	cols := make([]column, len(names))
	for i, name := range names {
		cols[i].name = name
	}

	// declared types are best effort; some drivers do not report them
	if types, err := rows.ColumnTypes(); err == nil && len(types) == len(names) {
		for i, ct := range types {
			cols[i].declType = ct.DatabaseTypeName()
		}
	}
	return cols, nil
}

func columnNames(cols []column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// scanRow scans the current row into driver values.
func scanRow(rows db.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}
