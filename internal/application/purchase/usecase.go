package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// LifecycleUseCase es el dueño del ciclo de vida de las órdenes de compra:
// pending → approved → ordered → received, con cancelación desde cualquier
// estado no terminal. La única transición con efecto secundario es received,
// que da de alta el stock vía el motor de stock en la misma transacción.
type LifecycleUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.PurchaseOrderRepository
	productRepo repository.ProductRepository
	applier     StockApplier
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	applier StockApplier,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		applier:     applier,
	}
}

// CreateOrderInput entrada para crear una orden de compra (manual o auto-generada).
type CreateOrderInput struct {
	CompanyID            string
	ProductID            string
	SupplierID           *string
	Quantity             decimal.Decimal
	UnitPrice            decimal.Decimal
	Notes                string
	Status               entity.PurchaseOrderStatus // vacío = pending
	AutoGenerated        bool
	ExpectedDeliveryDate time.Time // cero = now + lead time del producto
}

// Create valida e inserta la orden. Las órdenes auto-generadas siempre nacen
// en pending; las manuales pueden nacer en un estado inicial no terminal.
func (uc *LifecycleUseCase) Create(ctx context.Context, input CreateOrderInput) (*entity.PurchaseOrder, error) {
	if input.CompanyID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = entity.PurchaseOrderPending
	}
	if !status.IsValid() || status.IsTerminal() {
		return nil, domain.ErrInvalidInput
	}
	if input.AutoGenerated && status != entity.PurchaseOrderPending {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	expected := input.ExpectedDeliveryDate
	if expected.IsZero() {
		expected = now.AddDate(0, 0, product.LeadTimeDays)
	}

	order := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		CompanyID:            input.CompanyID,
		ProductID:            input.ProductID,
		SupplierID:           input.SupplierID,
		Quantity:             input.Quantity,
		UnitPrice:            input.UnitPrice,
		TotalAmount:          input.Quantity.Mul(input.UnitPrice),
		Status:               status,
		AutoGenerated:        input.AutoGenerated,
		Notes:                input.Notes,
		ExpectedDeliveryDate: expected,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Transition mueve la orden al estado destino si la tabla de adyacencia lo
// permite. El cambio es un compare-and-set sobre el estado observado: si otra
// transición concurrente ganó, se devuelve ErrConcurrencyConflict y el caller
// puede reintentar tras releer.
func (uc *LifecycleUseCase) Transition(ctx context.Context, companyID, orderID, userID string, target entity.PurchaseOrderStatus) (*entity.PurchaseOrder, error) {
	if !target.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	if target == entity.PurchaseOrderReceived {
		if err := uc.receive(ctx, order, userID); err != nil {
			return nil, err
		}
	} else {
		ok, err := uc.orderRepo.UpdateStatus(order.ID, order.Status, target)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, uc.casFailure(companyID, orderID)
		}
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	return order, nil
}

// receive confirma la transición a received y el alta de stock en una sola
// transacción: si el motor de stock falla, el estado de la orden no cambia.
func (uc *LifecycleUseCase) receive(ctx context.Context, order *entity.PurchaseOrder, userID string) error {
	return uc.txRunner.RunPurchase(ctx, func(
		orderRepo repository.PurchaseOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		ok, err := orderRepo.UpdateStatus(order.ID, order.Status, entity.PurchaseOrderReceived)
		if err != nil {
			return err
		}
		if !ok {
			return uc.casFailure(order.CompanyID, order.ID)
		}

		unitPrice := order.UnitPrice
		_, err = uc.applier.ApplyInTx(movRepo, productRepo, ledger.ApplyInput{
			CompanyID: order.CompanyID,
			UserID:    userID,
			ProductID: order.ProductID,
			Direction: entity.DirectionIn,
			Quantity:  order.Quantity,
			UnitCost:  &unitPrice,
			Reference: "PO-" + order.ID,
			Notes:     "recepción de orden de compra",
		}, time.Now())
		return err
	})
}

// casFailure distingue por qué el compare-and-set no afectó filas: la orden ya
// no existe (NotFound) o su estado cambió bajo nuestros pies (conflicto).
func (uc *LifecycleUseCase) casFailure(companyID, orderID string) error {
	current, err := uc.orderRepo.GetByID(companyID, orderID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrencyConflict
}

// GetByID obtiene una orden por ID dentro de la empresa.
func (uc *LifecycleUseCase) GetByID(ctx context.Context, companyID, orderID string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListByCompany lista órdenes por empresa, con filtro opcional de estado.
func (uc *LifecycleUseCase) ListByCompany(ctx context.Context, companyID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if status != "" && !status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.orderRepo.ListByCompany(companyID, status, limit, offset)
}
