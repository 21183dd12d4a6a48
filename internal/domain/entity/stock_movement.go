package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de stock.
const (
	DirectionIn  = "IN"  // entrada
	DirectionOut = "OUT" // salida
)

// StockMovement representa una entrada o salida de stock ya aplicada.
// El libro de movimientos es append-only: cada registro guarda también el
// stock y el costo promedio resultantes, de modo que el estado de un producto
// pueda reconstruirse reproduciendo su historial.
type StockMovement struct {
	ID               string
	CompanyID        string
	ProductID        string
	Direction        string          // IN u OUT
	Quantity         decimal.Decimal // siempre positiva; la dirección da el signo
	UnitCost         decimal.Decimal // en OUT, el costo promedio vigente
	TotalCost        decimal.Decimal
	StockAfter       decimal.Decimal // snapshot: stock tras aplicar el movimiento
	AverageCostAfter decimal.Decimal // snapshot: costo promedio tras aplicar
	Reference        string          // orden de compra, factura, nota, etc.
	Notes            string
	Date             time.Time
	CreatedAt        time.Time
	CreatedBy        string // UserID
}

// IsInbound indica si el movimiento suma stock.
func (m *StockMovement) IsInbound() bool {
	return m.Direction == DirectionIn
}
