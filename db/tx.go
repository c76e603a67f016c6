package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/Dosada05/sportsmeet/repositories"
)

var savepointName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// TxRunner runs units of work inside a single Postgres transaction.
type TxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTxRunner(db *sql.DB, logger *slog.Logger) *TxRunner {
	return &TxRunner{db: db, logger: logger}
}

// RunInTx commits when fn returns nil and rolls back otherwise. A panic in fn
// rolls back and is re-raised.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) (txErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("transaction rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// Savepoint runs fn behind a SAVEPOINT on exec. When fn fails the work done
// since the savepoint is undone and the transaction stays usable; fn's error
// is returned to the caller.
func (r *TxRunner) Savepoint(ctx context.Context, exec repositories.SQLExecutor, name string, fn func() error) error {
	if !savepointName.MatchString(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}
	if _, err := exec.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if fnErr := fn(); fnErr != nil {
		if _, err := exec.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
			return fmt.Errorf("%w (rollback to savepoint %s failed: %v)", fnErr, name, err)
		}
		if _, err := exec.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
			return fmt.Errorf("%w (release of savepoint %s failed: %v)", fnErr, name, err)
		}
		return fnErr
	}

	if _, err := exec.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}
