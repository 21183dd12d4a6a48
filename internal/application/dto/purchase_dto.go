package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders (orden manual).
type CreatePurchaseOrderRequest struct {
	ProductID            string          `json:"product_id" validate:"required"`
	SupplierID           *string         `json:"supplier_id,omitempty"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Notes                string          `json:"notes,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	// Status inicial opcional para órdenes manuales (por defecto pending).
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending approved ordered"`
}

// TransitionPurchaseOrderRequest body para POST /api/purchase-orders/:id/transition.
type TransitionPurchaseOrderRequest struct {
	Target string `json:"target" validate:"required,oneof=approved ordered received cancelled"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                   string          `json:"id"`
	CompanyID            string          `json:"company_id"`
	ProductID            string          `json:"product_id"`
	SupplierID           *string         `json:"supplier_id,omitempty"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Status               string          `json:"status"`
	AutoGenerated        bool            `json:"auto_generated"`
	Notes                string          `json:"notes,omitempty"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
