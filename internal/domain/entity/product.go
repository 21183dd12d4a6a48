package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo con su estado de stock.
// CurrentStock y AverageCost solo cambian vía el motor de stock (movimientos)
// o al completar un conteo físico; TotalValue siempre se recalcula como
// CurrentStock * AverageCost, nunca se escribe de forma independiente.
type Product struct {
	ID                  string
	CompanyID           string
	SKU                 string // código único por empresa
	Name                string
	Description         string
	Price               decimal.Decimal // precio de venta
	AverageCost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	CurrentStock        decimal.Decimal // nunca negativo tras una operación confirmada
	TotalValue          decimal.Decimal // CurrentStock * AverageCost
	ReorderLevel        decimal.Decimal // umbral de reposición (0 = sin reposición automática)
	LeadTimeDays        int             // días estimados entre pedir y recibir
	PreferredSupplierID *string
	IsActive            bool
	Version             int // contador optimista del estado de stock
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NeedsReorder indica si el producto está en o por debajo de su umbral de reposición.
// El límite es inclusivo: stock == umbral ya dispara reposición.
func (p *Product) NeedsReorder() bool {
	return p.IsActive && p.ReorderLevel.GreaterThan(decimal.Zero) &&
		p.CurrentStock.LessThanOrEqual(p.ReorderLevel)
}
