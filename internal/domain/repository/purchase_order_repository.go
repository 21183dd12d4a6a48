package repository

import (
	"context"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	GetByID(companyID, id string) (*entity.PurchaseOrder, error)
	// ListByCompany lista por empresa; status vacío = todos los estados.
	ListByCompany(companyID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)

	// UpdateStatus transiciona con compare-and-set sobre el estado observado:
	// UPDATE ... WHERE id = $1 AND status = $2. Devuelve false (sin error) si
	// ninguna fila coincidió; el caller decide entre NotFound y conflicto.
	UpdateStatus(id string, from, to entity.PurchaseOrderStatus) (bool, error)

	// HasOpenAutoOrder indica si el producto ya tiene una orden auto-generada
	// en estado no terminal (guarda contra reposición duplicada).
	HasOpenAutoOrder(ctx context.Context, companyID, productID string) (bool, error)
}
