package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Confeccion-api/internal/application/ports"
	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// NewRepos arma el conjunto de repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Projects:     NewProjectRepository(q),
		Areas:        NewAreaRepository(q),
		Progress:     NewAreaProgressRepository(q),
		Garments:     NewGarmentRepository(q),
		Configs:      NewMaterialConfigRepository(q),
		Requirements: NewMaterialRequirementRepository(q),
		Supplies:     NewSupplyRepository(q),
		Movements:    NewSupplyMovementRepository(q),
		Locations:    NewStockLocationRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
