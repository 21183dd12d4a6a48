package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckLineRequest línea de conteo enviada por el cliente.
type CheckLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	ActualStock decimal.Decimal `json:"actual_stock"`
}

// CreateInventoryCheckRequest body para POST /api/inventory-checks.
// El stock esperado de cada línea se toma del libro en el momento de crear.
type CreateInventoryCheckRequest struct {
	Notes string             `json:"notes,omitempty"`
	Lines []CheckLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateInventoryCheckRequest body para PUT /api/inventory-checks/:id (solo draft).
type UpdateInventoryCheckRequest struct {
	Notes *string            `json:"notes,omitempty"`
	Lines []CheckLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

// CheckLineResponse línea de conteo con diferencia calculada.
type CheckLineResponse struct {
	ProductID     string          `json:"product_id"`
	ExpectedStock decimal.Decimal `json:"expected_stock"`
	ActualStock   decimal.Decimal `json:"actual_stock"`
	Difference    decimal.Decimal `json:"difference"` // actual - esperado
}

// InventoryCheckResponse salida de un conteo físico.
type InventoryCheckResponse struct {
	ID        string              `json:"id"`
	CompanyID string              `json:"company_id"`
	CheckCode string              `json:"check_code"`
	Status    string              `json:"status"`
	Notes     string              `json:"notes,omitempty"`
	Lines     []CheckLineResponse `json:"lines"`
	CreatedBy string              `json:"created_by,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// InventoryCheckListResponse lista paginada de conteos.
type InventoryCheckListResponse struct {
	Items []InventoryCheckResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
