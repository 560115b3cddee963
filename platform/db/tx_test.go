package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"chanitec_backend/platform/logger"

	"github.com/jackc/pgx/v5"
)

type fakeTx struct {
	pgx.Tx
	committed   bool
	rolledBack  bool
	rollbackErr error
	commitErr   error
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return t.rollbackErr
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, nil, func(pgx.Tx) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed || tx.rolledBack {
		t.Fatalf("expected commit only, got committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
}

func TestWithTxRollsBackAndReturnsOriginalError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	tx := &fakeTx{rollbackErr: errors.New("conn lost")}
	workErr := errors.New("insert failed")

	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, log, func(pgx.Tx) error { return workErr })

	if !errors.Is(err, workErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if tx.committed {
		t.Fatal("expected no commit after failure")
	}
	if !tx.rolledBack {
		t.Fatal("expected rollback after failure")
	}
	if !strings.Contains(buf.String(), "tx_rollback_failed") {
		t.Fatalf("expected rollback failure to be logged, got %q", buf.String())
	}
}

func TestWithTxIgnoresClosedTxOnRollback(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	tx := &fakeTx{rollbackErr: pgx.ErrTxClosed}

	_ = WithTx(context.Background(), &fakeBeginner{tx: tx}, log, func(pgx.Tx) error { return errors.New("boom") })

	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged for closed tx, got %q", buf.String())
	}
}

func TestWithTxWrapsCommitFailure(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("serialization failure")}
	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, nil, func(pgx.Tx) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "commit transaction") {
		t.Fatalf("expected wrapped commit error, got %v", err)
	}
	if !tx.rolledBack {
		t.Fatal("expected rollback after failed commit")
	}
}

func TestWithTxBeginFailure(t *testing.T) {
	called := false
	err := WithTx(context.Background(), &fakeBeginner{err: errors.New("pool closed")}, nil, func(pgx.Tx) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("expected begin error without running work, got err=%v called=%v", err, called)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	tx := &fakeTx{}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic to propagate")
		}
		if !tx.rolledBack {
			t.Fatal("expected rollback on panic")
		}
	}()
	_ = WithTx(context.Background(), &fakeBeginner{tx: tx}, nil, func(pgx.Tx) error { panic("bad state") })
}
