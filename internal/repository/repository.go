package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is wrapped by every per-entity not-found error.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// isUniqueViolation works for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// existingIDs returns the subset of ids present in table for userID.
func existingIDs(ctx context.Context, q sqlx.ExtContext, table, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM `+table+` WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return nil, err
	}
	found := []string{}
	if err := sqlx.SelectContext(ctx, q, &found, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return found, nil
}

// withTx runs fn in a transaction and commits when it returns nil.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
