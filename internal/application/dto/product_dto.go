package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El estado de stock
// inicia en cero (o con un stock semilla vía InitialStock/InitialCost).
type CreateProductRequest struct {
	SKU                 string           `json:"sku" validate:"required,min=1,max=100"`
	Name                string           `json:"name" validate:"required,min=1,max=200"`
	Description         string           `json:"description"`
	Price               decimal.Decimal  `json:"price"`
	ReorderLevel        decimal.Decimal  `json:"reorder_level"`
	LeadTimeDays        int              `json:"lead_time_days" validate:"min=0"`
	PreferredSupplierID *string          `json:"preferred_supplier_id,omitempty"`
	InitialStock        *decimal.Decimal `json:"initial_stock,omitempty"`
	InitialCost         *decimal.Decimal `json:"initial_cost,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. CurrentStock,
// AverageCost y TotalValue no se tocan por aquí: solo vía movimientos o conteos.
type UpdateProductRequest struct {
	Name                *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string          `json:"description"`
	Price               *decimal.Decimal `json:"price"`
	ReorderLevel        *decimal.Decimal `json:"reorder_level"`
	LeadTimeDays        *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	PreferredSupplierID *string          `json:"preferred_supplier_id"`
	IsActive            *bool            `json:"is_active"`
}

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	AverageCost         decimal.Decimal `json:"average_cost"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	TotalValue          decimal.Decimal `json:"total_value"`
	ReorderLevel        decimal.Decimal `json:"reorder_level"`
	LeadTimeDays        int             `json:"lead_time_days"`
	PreferredSupplierID *string         `json:"preferred_supplier_id,omitempty"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
