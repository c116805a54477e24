package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/workboard/internal/db"
)

// ErrInjected is the default failure returned by FailingUoW.
var ErrInjected = errors.New("injected write failure")

// FailingUoW runs transactions against DB but fails the FailOn-th write
// (ExecContext, counted from 1 across the whole transaction). Reads pass
// through. FailOn <= 0 fails the transaction before fn runs.
//
// Txs counts WithinTx calls so tests can assert whether persistence was
// attempted at all.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
	Txs    atomic.Int32
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Txs.Add(1)
	if u.FailOn <= 0 {
		return u.err()
	}
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingExec{DBTX: tx, failOn: u.FailOn, err: u.err()}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

func (u *FailingUoW) err() error {
	if u.Err != nil {
		return u.Err
	}
	return ErrInjected
}

type failingExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
