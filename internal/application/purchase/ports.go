package purchase

import (
	"context"
	"time"

	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la recepción de una orden: el cambio de estado y
// el alta de stock se confirman juntos o no se confirman.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockApplier es el contrato que el ciclo de vida consume del motor de stock:
// aplicar un movimiento dentro de la transacción del caller.
type StockApplier interface {
	ApplyInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		input ledger.ApplyInput,
		now time.Time,
	) (*ledger.MovementResult, error)
}
