package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, company_id, product_id, supplier_id, quantity, unit_price,
	total_amount, status, auto_generated, notes, expected_delivery_date, created_at, updated_at`

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre
// PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var status string
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.ProductID, &o.SupplierID, &o.Quantity, &o.UnitPrice,
		&o.TotalAmount, &status, &o.AutoGenerated, &o.Notes, &o.ExpectedDeliveryDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.PurchaseOrderStatus(status)
	return &o, nil
}

// Create persiste una orden de compra.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, company_id, product_id, supplier_id, quantity, unit_price,
			total_amount, status, auto_generated, notes, expected_delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.ProductID, order.SupplierID, order.Quantity,
		order.UnitPrice, order.TotalAmount, string(order.Status), order.AutoGenerated,
		order.Notes, order.ExpectedDeliveryDate, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de la empresa por ID.
func (r *PurchaseOrderRepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE company_id = $1 AND id = $2`
	o, err := scanPurchaseOrder(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return o, nil
}

// ListByCompany lista órdenes por empresa; status vacío = todos.
func (r *PurchaseOrderRepo) ListByCompany(companyID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus transiciona con compare-and-set sobre el estado observado.
// Cero filas afectadas significa que la orden no existe o que otra transición
// concurrente ganó; el caller distingue releyendo.
func (r *PurchaseOrderRepo) UpdateStatus(id string, from, to entity.PurchaseOrderStatus) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("update purchase order status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// HasOpenAutoOrder indica si el producto tiene una orden auto-generada en
// estado no terminal.
func (r *PurchaseOrderRepo) HasOpenAutoOrder(ctx context.Context, companyID, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM purchase_orders
			WHERE company_id = $1 AND product_id = $2 AND auto_generated
			  AND status NOT IN ('received', 'cancelled')
		)`, companyID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open auto order: %w", err)
	}
	return exists, nil
}
