package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	execMaxRetries  = 3
	execBaseBackoff = 100 * time.Millisecond
	execMaxBackoff  = 3 * time.Second
)

var retryablePgErrorCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

// ExecWithRetry runs a DDL statement inside a serializable transaction, retrying
// transient failures with exponential backoff.
func ExecWithRetry(ctx context.Context, pool Pool, name, statement string) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var attempt int
	for attempt = 0; attempt < execMaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, backoff(attempt)); err != nil {
				return err
			}
		}

		tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return fmt.Errorf("begin transaction for %s: %w", name, err)
		}

		if _, err := tx.Exec(ctx, statement); err != nil {
			_ = tx.Rollback(ctx)
			if ShouldRetry(err) && attempt < execMaxRetries-1 {
				slog.Warn("transient error applying statement", "name", name, "attempt", attempt+1, "error", err)
				continue
			}
			return fmt.Errorf("apply %s: %w", name, err)
		}

		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			if ShouldRetry(err) && attempt < execMaxRetries-1 {
				slog.Warn("transient error committing statement", "name", name, "attempt", attempt+1, "error", err)
				continue
			}
			return fmt.Errorf("commit %s: %w", name, err)
		}

		return nil
	}

	return fmt.Errorf("apply %s: exceeded max retries (%d)", name, attempt)
}

// ShouldRetry reports whether err is a transient PostgreSQL failure.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := retryablePgErrorCodes[pgErr.Code]; ok {
			return true
		}
	}

	return errors.Is(err, pgx.ErrTxClosed)
}

func backoff(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt-1))) * execBaseBackoff
	if d > execMaxBackoff {
		d = execMaxBackoff
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
