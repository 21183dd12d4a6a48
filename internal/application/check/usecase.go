package check

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// ReconcilerUseCase es el dueño del flujo de conteo físico: crear en draft,
// editar mientras siga en draft y, al completar, sobreescribir el stock del
// libro con el stock contado. La sobreescritura no pasa por el motor de
// movimientos y no altera el costo promedio: un conteo físico corrige
// cantidades, no la base histórica de costos.
type ReconcilerUseCase struct {
	txRunner    TxRunner
	checkRepo   repository.InventoryCheckRepository
	productRepo repository.ProductRepository
}

// NewReconcilerUseCase construye el caso de uso.
func NewReconcilerUseCase(
	txRunner TxRunner,
	checkRepo repository.InventoryCheckRepository,
	productRepo repository.ProductRepository,
) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		txRunner:    txRunner,
		checkRepo:   checkRepo,
		productRepo: productRepo,
	}
}

// Create abre un conteo en draft. El stock esperado de cada línea se toma del
// libro en este momento; el código KK-YYYYMMDD-NNN se secuencia por empresa y día.
func (uc *ReconcilerUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateInventoryCheckRequest) (*entity.InventoryCheck, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines, err := uc.buildLines(companyID, in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	code, err := uc.checkRepo.NextCheckCode(ctx, companyID, now)
	if err != nil {
		return nil, err
	}

	ic := &entity.InventoryCheck{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CheckCode: code,
		Status:    entity.InventoryCheckDraft,
		Notes:     in.Notes,
		Lines:     lines,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.checkRepo.Create(ic); err != nil {
		return nil, err
	}
	return ic, nil
}

// buildLines valida cada producto y arma las líneas con el stock esperado del libro.
func (uc *ReconcilerUseCase) buildLines(companyID string, in []dto.CheckLineRequest) ([]entity.InventoryCheckLine, error) {
	seen := make(map[string]bool, len(in))
	lines := make([]entity.InventoryCheckLine, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" || l.ActualStock.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[l.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[l.ProductID] = true

		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		lines = append(lines, entity.InventoryCheckLine{
			ID:            uuid.New().String(),
			ProductID:     l.ProductID,
			ExpectedStock: product.CurrentStock,
			ActualStock:   l.ActualStock,
		})
	}
	return lines, nil
}

// Update edita notas y/o líneas. Solo permitido en draft; en cualquier otro
// estado devuelve ErrInvalidState.
func (uc *ReconcilerUseCase) Update(ctx context.Context, companyID, checkID string, in dto.UpdateInventoryCheckRequest) (*entity.InventoryCheck, error) {
	ic, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return nil, err
	}
	if ic == nil {
		return nil, domain.ErrNotFound
	}
	if ic.Status != entity.InventoryCheckDraft {
		return nil, domain.ErrInvalidState
	}

	if in.Notes != nil {
		ic.Notes = *in.Notes
	}
	if len(in.Lines) > 0 {
		lines, err := uc.buildLines(companyID, in.Lines)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].CheckID = ic.ID
		}
		ic.Lines = lines
	}
	ic.UpdatedAt = time.Now()
	if err := uc.checkRepo.Update(ic); err != nil {
		return nil, err
	}
	return ic, nil
}

// Complete cierra el conteo: en una sola transacción pasa el estado a
// completed (CAS sobre draft) y, línea por línea, sobreescribe
// current_stock = actual_stock recalculando total_value con el costo promedio
// vigente, que queda intacto.
func (uc *ReconcilerUseCase) Complete(ctx context.Context, companyID, checkID string) (*entity.InventoryCheck, error) {
	ic, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return nil, err
	}
	if ic == nil {
		return nil, domain.ErrNotFound
	}
	if ic.Status != entity.InventoryCheckDraft {
		return nil, domain.ErrInvalidState
	}

	err = uc.txRunner.RunCheck(ctx, func(
		checkRepo repository.InventoryCheckRepository,
		productRepo repository.ProductRepository,
	) error {
		ok, err := checkRepo.UpdateStatus(ic.ID, entity.InventoryCheckDraft, entity.InventoryCheckCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return uc.casFailure(companyID, checkID)
		}

		// relee dentro de la transacción: un Update concurrente pudo haber
		// cambiado las líneas después de la lectura inicial
		ic, err = checkRepo.GetByID(companyID, checkID)
		if err != nil {
			return err
		}
		if ic == nil {
			return domain.ErrNotFound
		}

		for _, line := range ic.Lines {
			product, err := productRepo.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			// sobreescritura directa: cantidad contada, costo promedio intacto
			if err := productRepo.UpdateStockState(product.ID, line.ActualStock, product.AverageCost, product.Version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ic.Status = entity.InventoryCheckCompleted
	ic.UpdatedAt = time.Now()
	return ic, nil
}

// Cancel pasa el conteo a cancelled (terminal) sin tocar el stock. Solo desde draft.
func (uc *ReconcilerUseCase) Cancel(ctx context.Context, companyID, checkID string) (*entity.InventoryCheck, error) {
	ic, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return nil, err
	}
	if ic == nil {
		return nil, domain.ErrNotFound
	}
	if ic.Status != entity.InventoryCheckDraft {
		return nil, domain.ErrInvalidState
	}
	ok, err := uc.checkRepo.UpdateStatus(ic.ID, entity.InventoryCheckDraft, entity.InventoryCheckCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.casFailure(companyID, checkID)
	}
	ic.Status = entity.InventoryCheckCancelled
	ic.UpdatedAt = time.Now()
	return ic, nil
}

// Delete elimina el conteo mientras no esté completed (un conteo completado ya
// movió stock y debe conservarse).
func (uc *ReconcilerUseCase) Delete(ctx context.Context, companyID, checkID string) error {
	ic, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return err
	}
	if ic == nil {
		return domain.ErrNotFound
	}
	if ic.Status == entity.InventoryCheckCompleted {
		return domain.ErrInvalidState
	}
	return uc.checkRepo.Delete(companyID, checkID)
}

// GetByID obtiene un conteo por ID dentro de la empresa.
func (uc *ReconcilerUseCase) GetByID(ctx context.Context, companyID, checkID string) (*entity.InventoryCheck, error) {
	ic, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return nil, err
	}
	if ic == nil {
		return nil, domain.ErrNotFound
	}
	return ic, nil
}

// ListByCompany lista conteos por empresa con paginación.
func (uc *ReconcilerUseCase) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InventoryCheck, error) {
	return uc.checkRepo.ListByCompany(companyID, limit, offset)
}

// casFailure distingue por qué el compare-and-set no afectó filas.
func (uc *ReconcilerUseCase) casFailure(companyID, checkID string) error {
	current, err := uc.checkRepo.GetByID(companyID, checkID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if current.Status.IsTerminal() {
		return domain.ErrInvalidState
	}
	return domain.ErrConcurrencyConflict
}
