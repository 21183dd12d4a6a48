package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/stock/movements.
// UnitCost es obligatorio en movimientos IN (entradas).
type ApplyMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Direction string           `json:"direction" validate:"required,oneof=IN OUT"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// MovementResultResponse resultado de aplicar (o revertir) un movimiento.
type MovementResultResponse struct {
	MovementID     string          `json:"movement_id"`
	ProductID      string          `json:"product_id"`
	NewStock       decimal.Decimal `json:"new_stock"`
	NewAverageCost decimal.Decimal `json:"new_average_cost"`
	TotalValue     decimal.Decimal `json:"total_value"` // NewStock * NewAverageCost
}

// MovementResponse un movimiento del libro, con sus snapshots.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Direction        string          `json:"direction"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	StockAfter       decimal.Decimal `json:"stock_after"`
	AverageCostAfter decimal.Decimal `json:"average_cost_after"`
	Reference        string          `json:"reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Date             time.Time       `json:"date"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ListMovementsRequest filtros para GET /api/stock/movements.
type ListMovementsRequest struct {
	ProductID string     `query:"product_id" validate:"required"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
	PageRequest
}
