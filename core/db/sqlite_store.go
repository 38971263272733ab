package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fbz-tec/sqlitexport/internal/logger"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver name.
	DriverCGO = "sqlite3"
	// DriverPureGo is the modernc.org/sqlite driver name.
	DriverPureGo = "sqlite"

	DefaultDriver = DriverCGO

	listTablesQuery   = `SELECT name FROM sqlite_master WHERE type = 'table'`
	// hidden = 1 marks virtual-table hidden columns; generated columns (2, 3)
	// are part of SELECT * and are kept.
	tableColumnsQuery = `SELECT name FROM pragma_table_xinfo(?) WHERE hidden != 1 ORDER BY cid`
)

// ErrNotConnected is returned when a query is issued before Connect.
var ErrNotConnected = errors.New("database not connected")

// Drivers lists the supported SQL driver names.
func Drivers() []string {
	return []string{DriverCGO, DriverPureGo}
}

// SQLiteStore is a read-only SQLite database store.
type SQLiteStore struct {
	path   string
	driver string
	db     *sqlx.DB
}

// NewSQLiteStore creates a store for the database file at path.
func NewSQLiteStore(path, driver string) *SQLiteStore {
	if driver == "" {
		driver = DefaultDriver
	}
	return &SQLiteStore{path: path, driver: driver}
}

// NewSQLiteStoreFromDB wraps an already opened handle.
func NewSQLiteStoreFromDB(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db, driver: db.DriverName()}
}

// Connect opens the database file read-only and pings it.
// A missing file is an error; SQLite would otherwise create an empty database.
func (s *SQLiteStore) Connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("unable to open database: %s is a directory", s.path)
	}

	dsn := readOnlyDSN(s.path)
	logger.Debug("Opening %s with driver %s", dsn, s.driver)

	conn, err := sqlx.Open(s.driver, dsn)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Debug("Database ping successful")
	s.db = conn
	return nil
}

// Close closes the database handle. Closing an unopened store is a no-op.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	logger.Debug("Closing database connection...")
	err := s.db.Close()
	s.db = nil
	if err != nil {
		logger.Debug("Error closing database connection: %v", err)
		return err
	}
	logger.Debug("Database connection closed successfully")
	return nil
}

// ListTables returns the names of all tables in catalog order.
func (s *SQLiteStore) ListTables(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	var names []string
	if err := s.db.SelectContext(ctx, &names, listTablesQuery); err != nil {
		return nil, fmt.Errorf("unable to list tables: %w", err)
	}
	logger.Debug("Catalog returned %d tables", len(names))
	return names, nil
}

// TableColumns returns the column names of table in declaration order.
func (s *SQLiteStore) TableColumns(ctx context.Context, table string) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	var names []string
	if err := s.db.SelectContext(ctx, &names, tableColumnsQuery, table); err != nil {
		return nil, fmt.Errorf("unable to read columns of table %q: %w", table, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("table %q has no columns", table)
	}
	return names, nil
}

// QueryTable selects every row of table with each value exactly as stored.
// Columns are selected as +"col" AS "col": the expression carries no
// declared type, so neither driver decodes DATETIME or BOOLEAN columns.
func (s *SQLiteStore) QueryTable(ctx context.Context, table string) (Rows, error) {
	cols, err := s.TableColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = "+" + QuoteIdent(c) + " AS " + QuoteIdent(c)
	}
	return s.query(ctx, table, "SELECT "+strings.Join(exprs, ", ")+" FROM "+QuoteIdent(table))
}

// QueryTableDecoded selects every row of table and lets the driver decode
// values by declared type (DATE/DATETIME/TIMESTAMP to time.Time, BOOLEAN to bool).
func (s *SQLiteStore) QueryTableDecoded(ctx context.Context, table string) (Rows, error) {
	return s.query(ctx, table, "SELECT * FROM "+QuoteIdent(table))
}

func (s *SQLiteStore) query(ctx context.Context, table, query string) (Rows, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}
	logger.Debug("Query: %s", query)

	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query on table %q failed: %w", table, err)
	}
	logger.Debug("Query executed in %v", time.Since(start))
	return rows, nil
}

// QuoteIdent quotes a SQLite identifier, doubling embedded double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func readOnlyDSN(path string) string {
	return "file:" + uriPathEscaper.Replace(path) + "?mode=ro"
}
