package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner agrupa en una transacción las escrituras de un borrador (cabecera + líneas).
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool. Read committed: cada borrador lo edita un solo usuario.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run ejecuta fn con un DraftRepo atado a la transacción. Commit si fn no falla; Rollback si falla.
func (r *TxRunner) Run(ctx context.Context, fn func(drafts *DraftRepo) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newDraftRepo(tx, nil)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}
