package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos (append-only). Los movimientos nunca se borran; las correcciones
// se registran como movimientos inversos o reconstruyendo los snapshots.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(companyID, id string) (*entity.StockMovement, error)
	ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)

	// ListHistoryByProduct devuelve el historial completo del producto en orden
	// cronológico (fecha de aplicación, luego creación), para reconstrucción.
	ListHistoryByProduct(companyID, productID string) ([]*entity.StockMovement, error)

	// UpdateSnapshot reescribe los campos snapshot de un movimiento durante una
	// reconstrucción de historial.
	UpdateSnapshot(id string, stockAfter, averageCostAfter decimal.Decimal) error
}
