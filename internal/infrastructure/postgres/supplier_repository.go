package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo adaptador de solo lectura del directorio de proveedores
// (el directorio se administra fuera de este servicio).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, company_id, name, email, phone, is_active, created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.Email, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// FirstActiveByCompany devuelve un proveedor activo de la empresa (el más
// antiguo) o nil si no hay ninguno.
func (r *SupplierRepo) FirstActiveByCompany(companyID string) (*entity.Supplier, error) {
	query := `
		SELECT id, company_id, name, email, phone, is_active, created_at, updated_at
		FROM suppliers WHERE company_id = $1 AND is_active
		ORDER BY created_at ASC LIMIT 1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.Email, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first active supplier: %w", err)
	}
	return &s, nil
}
