package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// Execer is the subset of [sql.DB] and [sql.Tx] used by repositories.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowsAffected returns the number of rows touched by res, wrapping driver errors.
func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}
