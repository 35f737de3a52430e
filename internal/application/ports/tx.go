package ports

import (
	"context"

	"github.com/jhoicas/Confeccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback de todas las escrituras (incluidos los descuentos de stock).
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
