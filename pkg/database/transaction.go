package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes that indicate a transaction lost a race and should
// be retried on a fresh snapshot.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// WithRetry runs fn inside a database transaction, retrying with
// exponential backoff when the transaction fails due to a serialization
// conflict or deadlock. Any other error aborts immediately and propagates
// unmodified to the caller.
//
// This is the "conflicts are retried transparently by the store" contract
// that the numbering authority and link graph manager rely on; neither of
// them implements retry logic of its own.
func WithRetry(ctx context.Context, db *gorm.DB, log hclog.Logger, fn func(tx *gorm.DB) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if isRetryableTxError(err) {
			if log != nil {
				log.Warn("transaction conflict, retrying",
					"attempt", attempt,
					"error", err,
				)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// LockForUpdate adds a FOR UPDATE row lock to the query on dialects that
// support it. SQLite has a single writer and rejects the clause, so it is
// skipped there; transaction isolation covers the read-modify-write.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isRetryableTxError reports whether the error is a transient transaction
// conflict worth retrying.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	// SQLite surfaces writer contention as SQLITE_BUSY/SQLITE_LOCKED.
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
