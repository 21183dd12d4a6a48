package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra (conjunto cerrado).
type PurchaseOrderStatus string

const (
	PurchaseOrderPending   PurchaseOrderStatus = "pending"
	PurchaseOrderApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

// purchaseOrderTransitions tabla de adyacencia del ciclo de vida:
// pending → approved → ordered → received; cualquier estado no terminal → cancelled.
// received y cancelled son terminales: no aparecen como origen.
var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderPending:  {PurchaseOrderApproved, PurchaseOrderCancelled},
	PurchaseOrderApproved: {PurchaseOrderOrdered, PurchaseOrderCancelled},
	PurchaseOrderOrdered:  {PurchaseOrderReceived, PurchaseOrderCancelled},
}

// IsValid indica si el valor pertenece al conjunto de estados conocidos.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderPending, PurchaseOrderApproved, PurchaseOrderOrdered,
		PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderReceived || s == PurchaseOrderCancelled
}

// CanTransitionTo consulta la tabla de adyacencia.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	for _, next := range purchaseOrderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s PurchaseOrderStatus) String() string { return string(s) }

// PurchaseOrder representa una orden de compra de reposición para un producto.
// AutoGenerated distingue las órdenes creadas por el motor de reposición de las
// creadas manualmente. El estado solo cambia vía el ciclo de vida (CAS sobre el
// estado observado); received y cancelled congelan la orden.
type PurchaseOrder struct {
	ID                   string
	CompanyID            string
	ProductID            string
	SupplierID           *string
	Quantity             decimal.Decimal // > 0
	UnitPrice            decimal.Decimal // >= 0
	TotalAmount          decimal.Decimal // Quantity * UnitPrice
	Status               PurchaseOrderStatus
	AutoGenerated        bool
	Notes                string
	ExpectedDeliveryDate time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
