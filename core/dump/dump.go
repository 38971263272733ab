// Package dump exports every table of a SQLite database to one file per table.
package dump

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fbz-tec/sqlitexport/core/db"
	"github.com/fbz-tec/sqlitexport/core/dialect"
	"github.com/fbz-tec/sqlitexport/core/exporters"
	"github.com/fbz-tec/sqlitexport/core/formatters"
	"github.com/fbz-tec/sqlitexport/core/output"
	"github.com/fbz-tec/sqlitexport/core/validation"
	"github.com/fbz-tec/sqlitexport/internal/logger"
)

// Options configures a dump run.
type Options struct {
	DBPath    string
	OutputDir string
	Driver    string

	Format      string
	Dialect     dialect.Dialect
	Encoding    string
	Compression string
	NoHeader    bool
	Time        formatters.TimeOptions
	Progress    bool

	// ManifestPath, when set, receives a YAML summary of the run.
	ManifestPath string
}

// DefaultOptions returns options producing comma separated, CRLF terminated,
// UTF-8 CSV files with every value written as stored.
func DefaultOptions(dbPath, outputDir string) Options {
	return Options{
		DBPath:      dbPath,
		OutputDir:   outputDir,
		Driver:      db.DefaultDriver,
		Format:      exporters.FormatCSV,
		Dialect:     dialect.Default(),
		Encoding:    output.DefaultEncoding,
		Compression: output.None,
	}
}

// TableResult describes one exported table.
type TableResult struct {
	Table    string        `yaml:"-"`
	Path     string        `yaml:"path"`
	Rows     int           `yaml:"rows"`
	Duration time.Duration `yaml:"duration"`
}

// EnsureDestination creates dir and any missing parents.
// An existing directory is not an error; an existing non-directory is.
func EnsureDestination(dir string) error {
	if dir == "" {
		return errors.New("output directory is required")
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// ListTables returns every table name in catalog order. All names are
// checked before any is used as a file name, so an unsafe name fails the
// run before a file is written.
func ListTables(ctx context.Context, store db.Store) ([]string, error) {
	tables, err := store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateTableNames(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// TablePath returns the file a table is written to.
func TablePath(dir, table, extension, compression string) string {
	return output.ResolvePath(filepath.Join(dir, table+"."+extension), compression)
}

// ExportTable writes every row of table to <dir>/<table>.<ext>, header first.
func ExportTable(ctx context.Context, store db.Store, table, dir string, opts Options) (TableResult, error) {
	result := TableResult{Table: table}
	start := time.Now()

	exp, err := exporters.Get(opts.Format)
	if err != nil {
		return result, err
	}

	filePath := filepath.Join(dir, table+"."+exp.Extension())
	result.Path = TablePath(dir, table, exp.Extension(), opts.Compression)

	query := store.QueryTable
	if opts.Time.Decode() {
		query = store.QueryTableDecoded
	}
	rows, err := query(ctx, table)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	n, err := exp.Export(rows, exporters.ExportOptions{
		Format:      opts.Format,
		OutputPath:  filePath,
		Dialect:     opts.Dialect,
		Encoding:    opts.Encoding,
		Compression: opts.Compression,
		NoHeader:    opts.NoHeader,
		Time:        opts.Time,
		ProgressBar: opts.Progress,
		Label:       table,
	})
	result.Rows = n
	result.Duration = time.Since(start)
	if err != nil {
		return result, fmt.Errorf("export of table %s failed: %w", table, err)
	}

	logger.Success("Table %s exported to %s (%d rows)", table, result.Path, n)
	return result, nil
}

// Run opens the database at opts.DBPath and exports all of its tables.
func Run(ctx context.Context, opts Options) (*Manifest, error) {
	return RunWithStore(ctx, db.NewSQLiteStore(opts.DBPath, opts.Driver), opts)
}

// RunWithStore exports every table of store into opts.OutputDir, stopping at
// the first failure. The store is closed on every path once opened.
// Files written before a failure are left in place.
func RunWithStore(ctx context.Context, store db.Store, opts Options) (manifest *Manifest, err error) {
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing database: %w", cerr)
		}
	}()

	if err := EnsureDestination(opts.OutputDir); err != nil {
		return nil, err
	}

	tables, err := ListTables(ctx, store)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d tables", len(tables))

	manifest = NewManifest(opts)
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return manifest, fmt.Errorf("export cancelled before table %s: %w", table, err)
		}
		result, err := ExportTable(ctx, store, table, opts.OutputDir, opts)
		if err != nil {
			return manifest, err
		}
		manifest.Add(result)
	}
	manifest.Finish()

	if opts.ManifestPath != "" {
		if err := manifest.WriteFile(opts.ManifestPath); err != nil {
			return manifest, err
		}
		logger.Info("Manifest written to %s", opts.ManifestPath)
	}
	return manifest, nil
}
