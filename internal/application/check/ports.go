package check

import (
	"context"

	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la conciliación: el cierre del conteo y la
// sobreescritura de stock de todas las líneas se confirman juntos.
type TxRunner interface {
	RunCheck(ctx context.Context, fn func(
		checkRepo repository.InventoryCheckRepository,
		productRepo repository.ProductRepository,
	) error) error
}
