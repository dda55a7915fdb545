package inventory

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El append valida referencias y escribe en la
// misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sites repository.SiteRepository,
		categories repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error) error
}
