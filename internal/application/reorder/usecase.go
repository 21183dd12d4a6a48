package reorder

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/application/purchase"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
	"github.com/jcastano/stockcore-api/pkg/logger"
)

// targetStockFactor stock objetivo = umbral de reposición * 1.5.
var targetStockFactor = decimal.NewFromFloat(1.5)

// EngineUseCase evalúa qué productos están en o por debajo de su umbral de
// reposición y crea órdenes de compra auto-generadas. Solo lee el estado de
// stock; la escritura pasa por el ciclo de vida de órdenes. Un agendador
// externo decide cuándo ejecutar Scan; reejecutarlo sin cruces nuevos de
// umbral no crea órdenes (las abiertas se omiten).
type EngineUseCase struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	orderRepo    repository.PurchaseOrderRepository
	lifecycle    *purchase.LifecycleUseCase
	log          *logger.Logger
}

// NewEngineUseCase construye el motor de reposición.
func NewEngineUseCase(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	orderRepo repository.PurchaseOrderRepository,
	lifecycle *purchase.LifecycleUseCase,
	log *logger.Logger,
) *EngineUseCase {
	return &EngineUseCase{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		lifecycle:    lifecycle,
		log:          log,
	}
}

// ScanError error por producto durante el escaneo.
type ScanError struct {
	ProductID string
	Message   string
}

// ScanResult resultado parcial del escaneo: los fallos por producto no abortan
// el resto.
type ScanResult struct {
	Scanned       int
	Skipped       int
	OrdersCreated []*entity.PurchaseOrder
	Errors        []ScanError
}

// Scan recorre los productos activos de la empresa bajo umbral (inclusivo:
// stock == umbral ya repone) y crea una orden pending auto-generada por cada
// uno, salvo que ya exista una orden auto-generada abierta para el producto.
// Cada intento es su propia transacción: un producto lento o fallido no
// bloquea a los demás.
func (uc *EngineUseCase) Scan(ctx context.Context, companyID string) (*ScanResult, error) {
	products, err := uc.productRepo.ListBelowReorderLevel(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	for _, product := range products {
		result.Scanned++

		hasOpen, err := uc.orderRepo.HasOpenAutoOrder(ctx, companyID, product.ID)
		if err != nil {
			result.Errors = append(result.Errors, ScanError{ProductID: product.ID, Message: err.Error()})
			continue
		}
		if hasOpen {
			result.Skipped++
			continue
		}

		order, err := uc.lifecycle.Create(ctx, purchase.CreateOrderInput{
			CompanyID:     companyID,
			ProductID:     product.ID,
			SupplierID:    uc.resolveSupplier(product),
			Quantity:      suggestedQuantity(product),
			UnitPrice:     product.AverageCost,
			Notes:         "generada por el motor de reposición",
			AutoGenerated: true,
		})
		if err != nil {
			result.Errors = append(result.Errors, ScanError{ProductID: product.ID, Message: err.Error()})
			continue
		}
		result.OrdersCreated = append(result.OrdersCreated, order)
	}

	uc.log.Info().
		Str("company_id", companyID).
		Int("scanned", result.Scanned).
		Int("skipped", result.Skipped).
		Int("orders_created", len(result.OrdersCreated)).
		Int("errors", len(result.Errors)).
		Msg("escaneo de reposición finalizado")

	return result, nil
}

// suggestedQuantity stock objetivo (umbral * 1.5) menos stock actual, con piso
// de una unidad.
func suggestedQuantity(product *entity.Product) decimal.Decimal {
	target := product.ReorderLevel.Mul(targetStockFactor)
	qty := target.Sub(product.CurrentStock)
	if qty.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return qty
}

// resolveSupplier proveedor preferido si existe y está activo; si no, algún
// proveedor activo de la empresa; si no hay ninguno, nil (orden sin proveedor).
func (uc *EngineUseCase) resolveSupplier(product *entity.Product) *string {
	if product.PreferredSupplierID != nil && *product.PreferredSupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(*product.PreferredSupplierID)
		if err == nil && supplier != nil && supplier.IsActive && supplier.CompanyID == product.CompanyID {
			id := supplier.ID
			return &id
		}
	}
	supplier, err := uc.supplierRepo.FirstActiveByCompany(product.CompanyID)
	if err != nil || supplier == nil {
		return nil
	}
	id := supplier.ID
	return &id
}
