package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, company_id, product_id, direction, quantity, unit_cost,
	total_cost, stock_after, average_cost_after, reference, notes, date, created_at, created_by`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.Direction, &m.Quantity, &m.UnitCost,
		&m.TotalCost, &m.StockAfter, &m.AverageCostAfter, &m.Reference, &m.Notes,
		&m.Date, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// Create persiste un movimiento con su snapshot resultante.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, company_id, product_id, direction, quantity, unit_cost,
			total_cost, stock_after, average_cost_after, reference, notes, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.Direction,
		movement.Quantity, movement.UnitCost, movement.TotalCost,
		movement.StockAfter, movement.AverageCostAfter,
		movement.Reference, movement.Notes, movement.Date, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento de la empresa por ID.
func (r *StockMovementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND id = $2`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista movimientos por producto con filtro opcional de fechas.
func (r *StockMovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC, created_at DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query, companyID, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListHistoryByProduct devuelve el historial completo en orden cronológico,
// para reconstrucción de snapshots.
func (r *StockMovementRepo) ListHistoryByProduct(companyID, productID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE company_id = $1 AND product_id = $2
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movement history: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateSnapshot reescribe los campos snapshot de un movimiento.
func (r *StockMovementRepo) UpdateSnapshot(id string, stockAfter, averageCostAfter decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_movements SET stock_after = $2, average_cost_after = $3 WHERE id = $1`,
		id, stockAfter, averageCostAfter,
	)
	if err != nil {
		return fmt.Errorf("update stock movement snapshot: %w", err)
	}
	return nil
}
