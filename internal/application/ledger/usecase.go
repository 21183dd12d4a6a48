package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/inventory"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// StockLedgerUseCase es el único componente que muta el estado de stock de un
// producto (CurrentStock, AverageCost, TotalValue). Cada movimiento se aplica
// de forma transaccional con bloqueo de fila (SELECT FOR UPDATE) y queda
// registrado en el libro append-only con su snapshot resultante.
type StockLedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
	}
}

// ApplyInput entrada para aplicar un movimiento de stock.
// UnitCost es obligatorio en IN; en OUT se ignora y se usa el costo promedio vigente.
type ApplyInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Direction string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reference string
	Notes     string
}

// MovementResult estado resultante tras aplicar un movimiento.
type MovementResult struct {
	MovementID     string
	ProductID      string
	NewStock       decimal.Decimal
	NewAverageCost decimal.Decimal
	TotalValue     decimal.Decimal
}

// Apply valida, inicia una transacción, bloquea la fila del producto y aplica
// el movimiento según su dirección:
//   - IN: recalcula el costo promedio ponderado y suma la cantidad.
//   - OUT: verifica stock suficiente y resta; el costo promedio no cambia.
//
// Todo o nada: si falla cualquier paso, el estado queda como estaba.
func (uc *StockLedgerUseCase) Apply(ctx context.Context, input ApplyInput) (*MovementResult, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
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

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		r, err := applyInTx(movRepo, productRepo, input, time.Now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyInTx aplica un movimiento usando los repositorios proporcionados (misma
// transacción del caller). Lo usa el ciclo de vida de órdenes de compra para
// que la recepción y el alta de stock se confirmen juntas.
func (uc *StockLedgerUseCase) ApplyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input ApplyInput,
	now time.Time,
) (*MovementResult, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}
	return applyInTx(movRepo, productRepo, input, now)
}

func (uc *StockLedgerUseCase) validate(input ApplyInput) error {
	if input.ProductID == "" || input.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	switch input.Direction {
	case entity.DirectionIn:
		if input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.DirectionOut:
		// el costo de salida es el promedio vigente; no se acepta del caller
	default:
		return domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// applyInTx hace el read-modify-write serializado por producto: bloquea la
// fila, calcula el nuevo estado, lo escribe con CAS de versión y registra el
// movimiento con su snapshot.
func applyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input ApplyInput,
	now time.Time,
) (*MovementResult, error) {
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	var newStock, newCost, unitCost decimal.Decimal
	switch input.Direction {
	case entity.DirectionIn:
		unitCost = *input.UnitCost
		newStock = product.CurrentStock.Add(input.Quantity)
		newCost = inventory.CostCalculator(product.CurrentStock, product.AverageCost, input.Quantity, unitCost)
	case entity.DirectionOut:
		if product.CurrentStock.LessThan(input.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		unitCost = product.AverageCost
		newStock = product.CurrentStock.Sub(input.Quantity)
		newCost = product.AverageCost
	}

	if err := productRepo.UpdateStockState(product.ID, newStock, newCost, product.Version); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		CompanyID:        input.CompanyID,
		ProductID:        input.ProductID,
		Direction:        input.Direction,
		Quantity:         input.Quantity,
		UnitCost:         unitCost,
		TotalCost:        input.Quantity.Mul(unitCost),
		StockAfter:       newStock,
		AverageCostAfter: newCost,
		Reference:        input.Reference,
		Notes:            input.Notes,
		Date:             now,
		CreatedAt:        now,
		CreatedBy:        input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	return &MovementResult{
		MovementID:     mov.ID,
		ProductID:      product.ID,
		NewStock:       newStock,
		NewAverageCost: newCost,
		TotalValue:     newStock.Mul(newCost),
	}, nil
}

// Reverse revierte un movimiento ya aplicado registrando el movimiento opuesto
// con la misma cantidad y el mismo costo unitario. Es una aproximación: el
// costo promedio ponderado no es algebraicamente invertible si otros
// movimientos se intercalaron; para una corrección exacta usar
// RecomputeFromHistory.
func (uc *StockLedgerUseCase) Reverse(ctx context.Context, companyID, userID, movementID string) (*MovementResult, error) {
	mov, err := uc.movRepo.GetByID(companyID, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}

	opposite := entity.DirectionOut
	if mov.Direction == entity.DirectionOut {
		opposite = entity.DirectionIn
	}
	unitCost := mov.UnitCost
	return uc.Apply(ctx, ApplyInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: mov.ProductID,
		Direction: opposite,
		Quantity:  mov.Quantity,
		UnitCost:  &unitCost,
		Reference: "REV-" + mov.ID,
		Notes:     "reverso de movimiento",
	})
}

// RecomputeFromHistory reconstruye el estado de stock de un producto
// reproduciendo su libro de movimientos en orden cronológico desde cero, y
// reescribe los snapshots que hayan quedado desfasados. Se usa cuando una
// edición o un reverso dejó la valuación imprecisa.
func (uc *StockLedgerUseCase) RecomputeFromHistory(ctx context.Context, companyID, productID string) (*MovementResult, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		locked, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		history, err := movRepo.ListHistoryByProduct(companyID, productID)
		if err != nil {
			return err
		}

		stock := decimal.Zero
		cost := decimal.Zero
		for _, m := range history {
			if m.IsInbound() {
				cost = inventory.CostCalculator(stock, cost, m.Quantity, m.UnitCost)
				stock = stock.Add(m.Quantity)
			} else {
				stock = stock.Sub(m.Quantity)
				if stock.IsNegative() {
					// historial inconsistente: el stock del libro quedó bajo cero
					return domain.ErrInsufficientStock
				}
			}
			if !m.StockAfter.Equal(stock) || !m.AverageCostAfter.Equal(cost) {
				if err := movRepo.UpdateSnapshot(m.ID, stock, cost); err != nil {
					return err
				}
			}
		}

		if err := productRepo.UpdateStockState(productID, stock, cost, locked.Version); err != nil {
			return err
		}
		result = &MovementResult{
			ProductID:      productID,
			NewStock:       stock,
			NewAverageCost: cost,
			TotalValue:     stock.Mul(cost),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMovements consulta el libro por producto y rango de fechas.
func (uc *StockLedgerUseCase) ListMovements(
	ctx context.Context,
	companyID, productID string,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByProduct(companyID, productID, from, to, limit, offset)
}
