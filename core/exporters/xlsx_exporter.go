package exporters

import (
	"fmt"
	"time"

	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/formatters"
	"github.com/fbz-tec/sqlitexport/core/output"
	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/fbz-tec/sqlitexport/internal/ui"
	"github.com/xuri/excelize/v2"
)

// maxSheetRows is the row limit of one XLSX worksheet.
const maxSheetRows = 1_048_576

type xlsxExporter struct {
	maxRows int
}

func (e *xlsxExporter) Extension() string { return FormatXLSX }

// Export writes the table to a workbook. Rows beyond the sheet limit
// continue on Sheet2, Sheet3, ... each with its own header.
func (e *xlsxExporter) Export(rows db.Rows, options ExportOptions) (rowCount int, err error) {
	start := time.Now()
	limit := e.maxRows
	if limit <= 0 {
		limit = maxSheetRows
	}

	logger.Debug("Preparing XLSX export (compression=%s)", options.Compression)

	cols, err := describeColumns(rows)
	if err != nil {
		return 0, err
	}
	headers := columnNames(cols)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("Error closing workbook: %v", cerr)
		}
	}()

	headerStyleID := 0
	if !options.NoHeader {
		styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			logger.Warn("Failed to create header style: %v", err)
		} else {
			headerStyleID = styleID
		}
	}

	sheetIndex := 1
	sw, currentRow, err := initSheet(f, sheetIndex, headers, options.NoHeader, headerStyleID)
	if err != nil {
		return 0, err
	}

	var bar *ui.Progress
	if options.ProgressBar {
		bar = ui.NewProgress(options.Label)
	}

	for rows.Next() {
		values, err := scanRow(rows, len(cols))
		if err != nil {
			return rowCount, fmt.Errorf("error reading row %d: %w", rowCount+1, err)
		}

		if currentRow > limit {
			if err := sw.Flush(); err != nil {
				return rowCount, fmt.Errorf("error flushing sheet %d: %w", sheetIndex, err)
			}
			sheetIndex++
			logger.Debug("Sheet row limit reached, continuing on Sheet%d", sheetIndex)
			sw, currentRow, err = initSheet(f, sheetIndex, headers, options.NoHeader, headerStyleID)
			if err != nil {
				return rowCount, err
			}
		}

		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = formatters.FormatXLSXValue(v, cols[i].declType, options.Time)
		}

		cell, _ := excelize.CoordinatesToCellName(1, currentRow)
		if err := sw.SetRow(cell, cells); err != nil {
			return rowCount, fmt.Errorf("error writing row %d: %w", rowCount+1, err)
		}
		rowCount++
		currentRow++
		bar.Add(rowCount)
	}

	if err := rows.Err(); err != nil {
		return rowCount, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return rowCount, fmt.Errorf("error flushing sheet %d: %w", sheetIndex, err)
	}

	wc, err := output.CreateWriter(output.OutputConfig{
		Path:        options.OutputPath,
		Compression: options.Compression,
	})
	if err != nil {
		return rowCount, err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing output: %w", cerr)
		}
	}()

	if err := f.Write(wc); err != nil {
		return rowCount, fmt.Errorf("error writing workbook: %w", err)
	}
	bar.Finish(rowCount)

	logger.Debug("XLSX export completed: %d rows on %d sheet(s) in %v",
		rowCount, sheetIndex, time.Since(start).Round(time.Millisecond))
	return rowCount, nil
}

// initSheet creates (or reuses) SheetN and writes the header row.
// It returns the stream writer and the next free row number.
func initSheet(f *excelize.File, index int, headers []string, noHeader bool, styleID int) (*excelize.StreamWriter, int, error) {
	name := fmt.Sprintf("Sheet%d", index)
	if _, err := f.NewSheet(name); err != nil {
		return nil, 0, fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating stream writer: %w", err)
	}

	row := 1
	if !noHeader {
		cells := make([]any, len(headers))
		for i, h := range headers {
			cells[i] = excelize.Cell{Value: h, StyleID: styleID}
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := sw.SetRow(cell, cells); err != nil {
			return nil, 0, fmt.Errorf("error writing headers: %w", err)
		}
		row++
	}
	return sw, row, nil
}

func init() {
	MustRegister(FormatXLSX, func() Exporter { return &xlsxExporter{} })
}
