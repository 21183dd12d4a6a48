package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCheckStatus estado de un conteo físico de inventario.
type InventoryCheckStatus string

const (
	InventoryCheckDraft     InventoryCheckStatus = "draft"
	InventoryCheckCompleted InventoryCheckStatus = "completed"
	InventoryCheckCancelled InventoryCheckStatus = "cancelled"
)

// inventoryCheckTransitions tabla de adyacencia: draft → completed | cancelled.
var inventoryCheckTransitions = map[InventoryCheckStatus][]InventoryCheckStatus{
	InventoryCheckDraft: {InventoryCheckCompleted, InventoryCheckCancelled},
}

// IsValid indica si el valor pertenece al conjunto de estados conocidos.
func (s InventoryCheckStatus) IsValid() bool {
	switch s {
	case InventoryCheckDraft, InventoryCheckCompleted, InventoryCheckCancelled:
		return true
	}
	return false
}

// IsTerminal indica si el conteo quedó congelado.
func (s InventoryCheckStatus) IsTerminal() bool {
	return s == InventoryCheckCompleted || s == InventoryCheckCancelled
}

// CanTransitionTo consulta la tabla de adyacencia.
func (s InventoryCheckStatus) CanTransitionTo(target InventoryCheckStatus) bool {
	for _, next := range inventoryCheckTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s InventoryCheckStatus) String() string { return string(s) }

// InventoryCheckLine línea de conteo: stock esperado (libro) vs. contado físico.
type InventoryCheckLine struct {
	ID            string
	CheckID       string
	ProductID     string
	ExpectedStock decimal.Decimal
	ActualStock   decimal.Decimal
}

// Difference devuelve contado menos esperado (negativo = faltante).
func (l *InventoryCheckLine) Difference() decimal.Decimal {
	return l.ActualStock.Sub(l.ExpectedStock)
}

// InventoryCheck representa un conteo físico de inventario por empresa.
// CheckCode tiene formato KK-YYYYMMDD-NNN, secuenciado por empresa y día.
// Mientras está en draft las líneas se editan libremente; al completarlo el
// stock contado sobreescribe el stock del libro (sin tocar el costo promedio)
// y el documento queda inmutable.
type InventoryCheck struct {
	ID        string
	CompanyID string
	CheckCode string
	Status    InventoryCheckStatus
	Notes     string
	Lines     []InventoryCheckLine
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
