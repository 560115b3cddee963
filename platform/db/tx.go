package db

import (
	"context"
	"errors"
	"fmt"

	"chanitec_backend/platform/logger"

	"github.com/jackc/pgx/v5"
)

// TxBeginner starts transactions. *pgxpool.Pool implements it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a single transaction on one pooled connection.
// It commits when fn returns nil and rolls back otherwise. A failed rollback
// is logged and the error from fn is returned unchanged.
func WithTx(ctx context.Context, beginner TxBeginner, log *logger.Logger, fn func(tx pgx.Tx) error) (err error) {
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx, log)
			panic(p)
		}
		if err != nil {
			rollback(ctx, tx, log)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx, log *logger.Logger) {
	// Rollback must run even when the request context is already cancelled.
	if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		if log != nil {
			log.TxRollbackFailed(rbErr)
		}
	}
}
