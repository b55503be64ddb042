// Package pgxutil holds transaction and error helpers shared by the Postgres adapters.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLTxConfig groups parameters for WithSQLTx.
type SQLTxConfig struct {
	Opts *sql.TxOptions
	Fn   func(*sql.Tx) error
}

// WithSQLTx runs the given function within a database/sql transaction.
func WithSQLTx(ctx context.Context, db *sql.DB, cfg SQLTxConfig) (err error) {
	tx, err := db.BeginTx(ctx, cfg.Opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
	}()
	if err = cfg.Fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// PgCode returns the SQLSTATE of a wrapped *pgconn.PgError, or "".
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	return PgCode(err) == pgerrcode.UniqueViolation
}

// Hint maps common connection and schema failures to an operator-facing hint.
// It returns "" when nothing specific applies.
func Hint(err error) string {
	code := PgCode(err)
	switch {
	case code == pgerrcode.InvalidPassword, code == pgerrcode.InvalidAuthorizationSpecification:
		return "check DB_USER and DB_PASSWORD"
	case code == pgerrcode.InvalidCatalogName:
		return "database DB_NAME does not exist"
	case code == pgerrcode.UndefinedTable:
		return "run `immochat-admin migrate` to create the sessions table"
	case code == pgerrcode.TooManyConnections, code == pgerrcode.CannotConnectNow:
		return "the database is refusing connections; retry or raise max_connections"
	case pgerrcode.IsConnectionException(code):
		return "verify DB_HOST and DB_PORT are reachable"
	case code != "":
		return ""
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return "verify DB_HOST and DB_PORT are reachable"
	}
	return ""
}
