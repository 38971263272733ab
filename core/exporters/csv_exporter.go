package exporters

import (
	"fmt"
	"strings"
	"time"

	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/dialect"
	"github.com/fbz-tec/sqlitexport/core/formatters"
	"github.com/fbz-tec/sqlitexport/core/output"
	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/fbz-tec/sqlitexport/internal/ui"
)

// csvExporter streams rows as delimited text. The tsv format is the same
// exporter with the delimiter pinned to a tab.
type csvExporter struct {
	ext       string
	delimiter rune
}

func (e *csvExporter) Extension() string { return e.ext }

// Export writes a header row and every data row, one line per row.
func (e *csvExporter) Export(rows db.Rows, options ExportOptions) (rowCount int, err error) {
	start := time.Now()

	d := options.Dialect
	if e.delimiter != 0 {
		d.Delimiter = e.delimiter
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	logger.Debug("Preparing %s export (delimiter=%q, quote=%q, encoding=%s, compression=%s)",
		e.ext, string(d.Delimiter), string(d.Quote), options.Encoding, options.Compression)

	cols, err := describeColumns(rows)
	if err != nil {
		return 0, err
	}

	wc, err := output.CreateWriter(output.OutputConfig{
		Path:        options.OutputPath,
		Compression: options.Compression,
		Encoding:    options.Encoding,
	})
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing output: %w", cerr)
		}
	}()

	writer := dialect.NewWriter(wc, d)

	if !options.NoHeader {
		headers := columnNames(cols)
		if err := writer.Write(headers); err != nil {
			return 0, fmt.Errorf("error writing headers: %w", err)
		}
		logger.Debug("Headers written: %s", strings.Join(headers, string(d.Delimiter)))
	}

	var bar *ui.Progress
	if options.ProgressBar {
		bar = ui.NewProgress(options.Label)
	}

	record := make([]string, len(cols))
	for rows.Next() {
		values, err := scanRow(rows, len(cols))
		if err != nil {
			return rowCount, fmt.Errorf("error reading row %d: %w", rowCount+1, err)
		}
		for i, v := range values {
			record[i] = formatters.FormatCSVValue(v, cols[i].declType, options.Time)
		}

		if err := writer.Write(record); err != nil {
			return rowCount, fmt.Errorf("error writing row %d: %w", rowCount+1, err)
		}
		rowCount++
		bar.Add(rowCount)

		if rowCount%10000 == 0 {
			logger.Debug("%d rows written (%.0f rows/s)", rowCount, float64(rowCount)/time.Since(start).Seconds())
		}
	}

	if err := rows.Err(); err != nil {
		return rowCount, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return rowCount, fmt.Errorf("error flushing output: %w", err)
	}
	bar.Finish(rowCount)

	logger.Debug("%s export completed: %d rows written in %v", e.ext, rowCount, time.Since(start).Round(time.Millisecond))
	return rowCount, nil
}

func init() {
	MustRegister(FormatCSV, func() Exporter { return &csvExporter{ext: FormatCSV} })
	MustRegister(FormatTSV, func() Exporter { return &csvExporter{ext: FormatTSV, delimiter: '\t'} })
}
