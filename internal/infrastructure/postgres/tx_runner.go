package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la pieza
// que garantiza atomicidad en cascadas de catálogo, recodificado, importación
// y restauración total.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los cuatro repos atados a la tx
// y hace Commit o Rollback según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(
	sites repository.SiteRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	records repository.LedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewSiteRepository(tx),
		NewCategoryRepository(tx),
		NewProductRepository(tx),
		NewLedgerRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
