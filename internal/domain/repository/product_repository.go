package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El estado de stock (CurrentStock, AverageCost, TotalValue, Version) solo se
// escribe vía UpdateStockState; el resto de campos vía Create/Update.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)

	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de
	// la transacción en curso. Serializa los movimientos por producto.
	GetForUpdate(id string) (*entity.Product, error)

	// UpdateStockState escribe stock y costo promedio con CAS sobre la versión
	// observada; TotalValue se recalcula en el mismo UPDATE. Si la versión ya
	// no coincide devuelve domain.ErrConcurrencyConflict.
	UpdateStockState(productID string, stock, averageCost decimal.Decimal, version int) error

	// ListBelowReorderLevel devuelve los productos activos de la empresa cuyo
	// stock actual está en o por debajo de su umbral de reposición (inclusivo),
	// ordenados por mayor déficit primero.
	ListBelowReorderLevel(ctx context.Context, companyID string) ([]*entity.Product, error)
}
