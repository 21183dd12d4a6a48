package purchase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/stockcore-api/internal/application/apptest"
	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/application/purchase"
	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
)

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000c1"
	testUserID    = "00000000-0000-0000-0000-0000000000u1"
	testProductID = "00000000-0000-0000-0000-0000000000p1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	products  *apptest.ProductRepo
	movements *apptest.MovementRepo
	orders    *apptest.OrderRepo
	uc        *purchase.LifecycleUseCase
}

func buildEnv(t *testing.T) *env {
	t.Helper()
	products := apptest.NewProductRepo()
	movements := apptest.NewMovementRepo()
	orders := apptest.NewOrderRepo()
	tx := apptest.NewTxRunner(products, movements, orders, nil)

	products.Seed(&entity.Product{
		ID:           testProductID,
		CompanyID:    testCompanyID,
		SKU:          "SKU-001",
		Name:         "Cable HDMI 2m",
		CurrentStock: decimal.NewFromInt(100),
		AverageCost:  decimal.NewFromInt(10),
		LeadTimeDays: 7,
		IsActive:     true,
	})

	applier := ledger.NewStockLedgerUseCase(tx, products, movements)
	return &env{
		products:  products,
		movements: movements,
		orders:    orders,
		uc:        purchase.NewLifecycleUseCase(tx, orders, products, applier),
	}
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (e *env) createOrder(t *testing.T, status entity.PurchaseOrderStatus) *entity.PurchaseOrder {
	t.Helper()
	order, err := e.uc.Create(context.Background(), purchase.CreateOrderInput{
		CompanyID: testCompanyID,
		ProductID: testProductID,
		Quantity:  d(20),
		UnitPrice: d(5),
		Status:    status,
	})
	require.NoError(t, err)
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func Test_Create_PorDefectoPending(t *testing.T) {
	e := buildEnv(t)
	order := e.createOrder(t, "")

	assert.Equal(t, entity.PurchaseOrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(d(100)), "total = cantidad * precio")
	assert.False(t, order.ExpectedDeliveryDate.IsZero(),
		"sin fecha explícita se usa now + lead time del producto")
}

func Test_Create_EstadoTerminal_Rechaza(t *testing.T) {
	e := buildEnv(t)
	for _, status := range []entity.PurchaseOrderStatus{entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled} {
		_, err := e.uc.Create(context.Background(), purchase.CreateOrderInput{
			CompanyID: testCompanyID,
			ProductID: testProductID,
			Quantity:  d(1),
			UnitPrice: d(1),
			Status:    status,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado %s", status)
	}
}

func Test_Create_AutoGeneradaSoloPending(t *testing.T) {
	e := buildEnv(t)
	_, err := e.uc.Create(context.Background(), purchase.CreateOrderInput{
		CompanyID:     testCompanyID,
		ProductID:     testProductID,
		Quantity:      d(1),
		UnitPrice:     d(1),
		Status:        entity.PurchaseOrderApproved,
		AutoGenerated: true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func Test_Create_CantidadInvalida_Rechaza(t *testing.T) {
	e := buildEnv(t)
	_, err := e.uc.Create(context.Background(), purchase.CreateOrderInput{
		CompanyID: testCompanyID,
		ProductID: testProductID,
		Quantity:  d(0),
		UnitPrice: d(5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func Test_Create_ProductoDeOtraEmpresa_Forbidden(t *testing.T) {
	e := buildEnv(t)
	_, err := e.uc.Create(context.Background(), purchase.CreateOrderInput{
		CompanyID: "otra-empresa",
		ProductID: testProductID,
		Quantity:  d(1),
		UnitPrice: d(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition — grafo del ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

// El camino feliz completo: pending → approved → ordered → received.
func Test_Transition_CaminoFeliz(t *testing.T) {
	e := buildEnv(t)
	order := e.createOrder(t, "")

	for _, target := range []entity.PurchaseOrderStatus{
		entity.PurchaseOrderApproved,
		entity.PurchaseOrderOrdered,
		entity.PurchaseOrderReceived,
	} {
		updated, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, target)
		require.NoError(t, err, "transición a %s", target)
		assert.Equal(t, target, updated.Status)
	}
}

// Toda transición fuera de la tabla de adyacencia se rechaza.
func Test_Transition_SaltosInvalidos(t *testing.T) {
	casos := []struct {
		nombre string
		desde  entity.PurchaseOrderStatus
		hacia  entity.PurchaseOrderStatus
	}{
		{"pending no salta a ordered", entity.PurchaseOrderPending, entity.PurchaseOrderOrdered},
		{"pending no salta a received", entity.PurchaseOrderPending, entity.PurchaseOrderReceived},
		{"approved no salta a received", entity.PurchaseOrderApproved, entity.PurchaseOrderReceived},
		{"approved no vuelve a pending", entity.PurchaseOrderApproved, entity.PurchaseOrderPending},
		{"received es terminal", entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled},
		{"cancelled es terminal", entity.PurchaseOrderCancelled, entity.PurchaseOrderApproved},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			e := buildEnv(t)
			order := e.createOrder(t, "")
			e.orders.Items[order.ID].Status = c.desde

			_, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, c.hacia)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		})
	}
}

// Cancelar es válido desde cualquier estado no terminal.
func Test_Transition_CancelarDesdeNoTerminal(t *testing.T) {
	for _, desde := range []entity.PurchaseOrderStatus{
		entity.PurchaseOrderPending,
		entity.PurchaseOrderApproved,
		entity.PurchaseOrderOrdered,
	} {
		e := buildEnv(t)
		order := e.createOrder(t, "")
		e.orders.Items[order.ID].Status = desde

		updated, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, entity.PurchaseOrderCancelled)
		require.NoError(t, err, "cancelar desde %s", desde)
		assert.Equal(t, entity.PurchaseOrderCancelled, updated.Status)
		assert.Empty(t, e.movements.Items, "cancelar no mueve stock")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition — recepción con efecto en stock
// ──────────────────────────────────────────────────────────────────────────────

// received da de alta el stock al precio de la orden: 100 unidades a $10 + una
// orden de 20 a $5 deja 120 unidades a costo promedio $9.1666...
func Test_Transition_Received_DaDeAltaStock(t *testing.T) {
	e := buildEnv(t)
	order := e.createOrder(t, entity.PurchaseOrderOrdered)

	updated, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, entity.PurchaseOrderReceived)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, updated.Status)

	p, _ := e.products.GetByID(testProductID)
	assert.True(t, p.CurrentStock.Equal(d(120)))
	expectedCost := d(1100).Div(d(120))
	assert.True(t, p.AverageCost.Equal(expectedCost),
		"costo promedio: esperado %s, obtenido %s", expectedCost, p.AverageCost)

	require.Len(t, e.movements.Items, 1)
	mov := e.movements.Items[0]
	assert.Equal(t, entity.DirectionIn, mov.Direction)
	assert.True(t, mov.Quantity.Equal(d(20)))
	assert.True(t, mov.UnitCost.Equal(d(5)), "la entrada se valora al precio de la orden")
	assert.Equal(t, "PO-"+order.ID, mov.Reference)
}

// Si el alta de stock falla, el estado de la orden tampoco se confirma: la
// recepción es una sola transacción.
func Test_Transition_Received_FalloEnStock_RevierteEstado(t *testing.T) {
	e := buildEnv(t)
	order := e.createOrder(t, entity.PurchaseOrderOrdered)
	e.movements.CreateErr = errors.New("disco lleno")

	_, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, entity.PurchaseOrderReceived)
	require.Error(t, err)

	stored, _ := e.orders.GetByID(testCompanyID, order.ID)
	assert.Equal(t, entity.PurchaseOrderOrdered, stored.Status,
		"la orden debe seguir en ordered si el alta de stock falló")
	p, _ := e.products.GetByID(testProductID)
	assert.True(t, p.CurrentStock.Equal(d(100)), "el stock debe quedar intacto")
}

// Una transición concurrente que gana entre la lectura y el compare-and-set
// produce ErrConcurrencyConflict, nunca una doble transición.
func Test_Transition_CASPerdido_Conflicto(t *testing.T) {
	e := buildEnv(t)
	order := e.createOrder(t, "")

	// otra transición se cuela justo antes del CAS
	e.orders.BeforeUpdateStatus = func(id string) {
		e.orders.BeforeUpdateStatus = nil
		e.orders.Items[id].Status = entity.PurchaseOrderApproved
	}

	_, err := e.uc.Transition(context.Background(), testCompanyID, order.ID, testUserID, entity.PurchaseOrderApproved)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	stored, _ := e.orders.GetByID(testCompanyID, order.ID)
	assert.Equal(t, entity.PurchaseOrderApproved, stored.Status,
		"la transición concurrente que ganó se conserva")
}

func Test_Transition_OrdenInexistente_NotFound(t *testing.T) {
	e := buildEnv(t)
	_, err := e.uc.Transition(context.Background(), testCompanyID, "no-existe", testUserID, entity.PurchaseOrderApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListByCompany
// ──────────────────────────────────────────────────────────────────────────────

func Test_ListByCompany_FiltraPorEstado(t *testing.T) {
	e := buildEnv(t)
	e.createOrder(t, "")
	e.createOrder(t, entity.PurchaseOrderApproved)

	pendientes, err := e.uc.ListByCompany(context.Background(), testCompanyID, entity.PurchaseOrderPending, 20, 0)
	require.NoError(t, err)
	assert.Len(t, pendientes, 1)

	todas, err := e.uc.ListByCompany(context.Background(), testCompanyID, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, todas, 2)

	_, err = e.uc.ListByCompany(context.Background(), testCompanyID, "estado-raro", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
