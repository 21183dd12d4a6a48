package repository

import (
	"context"
	"time"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
)

// InventoryCheckRepository define el puerto de persistencia para conteos físicos.
type InventoryCheckRepository interface {
	Create(check *entity.InventoryCheck) error
	GetByID(companyID, id string) (*entity.InventoryCheck, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryCheck, error)

	// Update reemplaza cabecera y líneas. El caso de uso garantiza que solo se
	// invoque en estado draft.
	Update(check *entity.InventoryCheck) error

	// UpdateStatus transiciona con compare-and-set sobre el estado observado.
	// Devuelve false si ninguna fila coincidió.
	UpdateStatus(id string, from, to entity.InventoryCheckStatus) (bool, error)

	Delete(companyID, id string) error

	// NextCheckCode genera el siguiente código KK-YYYYMMDD-NNN para la empresa
	// y la fecha dadas (secuencia por día).
	NextCheckCode(ctx context.Context, companyID string, date time.Time) (string, error)
}
