package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

var _ repository.InventoryCheckRepository = (*InventoryCheckRepo)(nil)

// InventoryCheckRepo implementación del puerto InventoryCheckRepository sobre
// PostgreSQL (usable con pool o tx).
type InventoryCheckRepo struct {
	q Querier
}

// NewInventoryCheckRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCheckRepository(q Querier) *InventoryCheckRepo {
	return &InventoryCheckRepo{q: q}
}

// Create persiste el conteo con sus líneas.
func (r *InventoryCheckRepo) Create(check *entity.InventoryCheck) error {
	query := `
		INSERT INTO inventory_checks (id, company_id, check_code, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	createdBy := (*string)(nil)
	if check.CreatedBy != "" {
		createdBy = &check.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		check.ID, check.CompanyID, check.CheckCode, string(check.Status),
		check.Notes, createdBy, check.CreatedAt, check.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory check: %w", err)
	}
	return r.insertLines(check.ID, check.Lines)
}

func (r *InventoryCheckRepo) insertLines(checkID string, lines []entity.InventoryCheckLine) error {
	for _, line := range lines {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO inventory_check_lines (id, check_id, product_id, expected_stock, actual_stock)
			VALUES ($1, $2, $3, $4, $5)`,
			line.ID, checkID, line.ProductID, line.ExpectedStock, line.ActualStock,
		)
		if err != nil {
			return fmt.Errorf("insert inventory check line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el conteo con sus líneas.
func (r *InventoryCheckRepo) GetByID(companyID, id string) (*entity.InventoryCheck, error) {
	query := `
		SELECT id, company_id, check_code, status, notes, created_by, created_at, updated_at
		FROM inventory_checks WHERE company_id = $1 AND id = $2`
	var ic entity.InventoryCheck
	var status string
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, companyID, id).Scan(
		&ic.ID, &ic.CompanyID, &ic.CheckCode, &status, &ic.Notes, &createdBy,
		&ic.CreatedAt, &ic.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory check: %w", err)
	}
	ic.Status = entity.InventoryCheckStatus(status)
	if createdBy != nil {
		ic.CreatedBy = *createdBy
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, check_id, product_id, expected_stock, actual_stock
		FROM inventory_check_lines WHERE check_id = $1 ORDER BY product_id`,
		ic.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory check lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InventoryCheckLine
		if err := rows.Scan(&l.ID, &l.CheckID, &l.ProductID, &l.ExpectedStock, &l.ActualStock); err != nil {
			return nil, fmt.Errorf("scan inventory check line: %w", err)
		}
		ic.Lines = append(ic.Lines, l)
	}
	return &ic, rows.Err()
}

// ListByCompany lista conteos (sin líneas) por empresa con paginación.
func (r *InventoryCheckRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryCheck, error) {
	query := `
		SELECT id, company_id, check_code, status, notes, created_by, created_at, updated_at
		FROM inventory_checks WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory checks: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCheck
	for rows.Next() {
		var ic entity.InventoryCheck
		var status string
		var createdBy *string
		if err := rows.Scan(&ic.ID, &ic.CompanyID, &ic.CheckCode, &status, &ic.Notes,
			&createdBy, &ic.CreatedAt, &ic.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory check: %w", err)
		}
		ic.Status = entity.InventoryCheckStatus(status)
		if createdBy != nil {
			ic.CreatedBy = *createdBy
		}
		list = append(list, &ic)
	}
	return list, rows.Err()
}

// Update reemplaza cabecera y líneas (borra e inserta las líneas).
func (r *InventoryCheckRepo) Update(check *entity.InventoryCheck) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_checks SET notes = $2, updated_at = $3 WHERE id = $1`,
		check.ID, check.Notes, check.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory check: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_check_lines WHERE check_id = $1`, check.ID); err != nil {
		return fmt.Errorf("delete inventory check lines: %w", err)
	}
	return r.insertLines(check.ID, check.Lines)
}

// UpdateStatus transiciona con compare-and-set sobre el estado observado.
func (r *InventoryCheckRepo) UpdateStatus(id string, from, to entity.InventoryCheckStatus) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_checks SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("update inventory check status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Delete elimina el conteo y sus líneas.
func (r *InventoryCheckRepo) Delete(companyID, id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_check_lines WHERE check_id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory check lines: %w", err)
	}
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_checks WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete inventory check: %w", err)
	}
	return nil
}

// NextCheckCode genera el siguiente código KK-YYYYMMDD-NNN para la empresa y
// el día dados. La secuencia toma el sufijo máximo ya emitido ese día (no un
// conteo: borrar un draft no debe liberar su número); el constraint único
// sobre (company_id, check_code) cubre la carrera entre dos creaciones
// simultáneas.
func (r *InventoryCheckRepo) NextCheckCode(ctx context.Context, companyID string, date time.Time) (string, error) {
	day := date.Format("20060102")
	prefix := "KK-" + day + "-"
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(SUBSTRING(check_code FROM 13)::int), 0)
		FROM inventory_checks
		WHERE company_id = $1 AND check_code LIKE $2`,
		companyID, prefix+"%",
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next check code: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}
