package db

import (
	"context"
	"database/sql"
)

// Store defines the read-only operations needed to dump a database.
type Store interface {
	Connect(ctx context.Context) error
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	// QueryTable returns stored values without declared-type decoding.
	QueryTable(ctx context.Context, table string) (Rows, error)
	// QueryTableDecoded returns values as the driver decodes them by declared type.
	QueryTableDecoded(ctx context.Context, table string) (Rows, error)
}

// Rows is the cursor returned by QueryTable. *sql.Rows and *sqlx.Rows satisfy it.
type Rows interface {
	Columns() ([]string, error)
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
