// Package apptest contiene dobles en memoria de los puertos de persistencia
// para los tests de la capa de aplicación. Emulan la semántica relevante de la
// implementación PostgreSQL: CAS sobre la versión del producto, CAS sobre
// estados, y rollback de la "transacción" si el callback falla.
package apptest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// ProductRepo
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	Items map[string]*entity.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{Items: make(map[string]*entity.Product)}
}

// Seed inserta un producto directamente (sin validación).
func (r *ProductRepo) Seed(p *entity.Product) {
	cp := *p
	r.Items[p.ID] = &cp
}

func (r *ProductRepo) Create(product *entity.Product) error {
	cp := *product
	r.Items[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.Items {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	stored, ok := r.Items[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *product
	// el estado de stock no se toca por aquí
	cp.CurrentStock = stored.CurrentStock
	cp.AverageCost = stored.AverageCost
	cp.TotalValue = stored.TotalValue
	cp.Version = stored.Version
	r.Items[product.ID] = &cp
	return nil
}

func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.Items {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) UpdateStockState(productID string, stock, averageCost decimal.Decimal, version int) error {
	p, ok := r.Items[productID]
	if !ok {
		return domain.ErrConcurrencyConflict
	}
	if p.Version != version {
		return domain.ErrConcurrencyConflict
	}
	p.CurrentStock = stock
	p.AverageCost = averageCost
	p.TotalValue = stock.Mul(averageCost)
	p.Version++
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) ListBelowReorderLevel(ctx context.Context, companyID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.Items {
		if p.CompanyID == companyID && p.NeedsReorder() {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := out[i].ReorderLevel.Sub(out[i].CurrentStock)
		dj := out[j].ReorderLevel.Sub(out[j].CurrentStock)
		return di.GreaterThan(dj)
	})
	return out, nil
}

func (r *ProductRepo) snapshot() map[string]*entity.Product {
	snap := make(map[string]*entity.Product, len(r.Items))
	for k, v := range r.Items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepo
// ──────────────────────────────────────────────────────────────────────────────

// MovementRepo implementación en memoria de repository.StockMovementRepository.
// CreateErr permite forzar un fallo de escritura para probar rollbacks.
type MovementRepo struct {
	Items     []*entity.StockMovement
	CreateErr error
}

func NewMovementRepo() *MovementRepo {
	return &MovementRepo{}
}

func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	cp := *movement
	r.Items = append(r.Items, &cp)
	return nil
}

func (r *MovementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	for _, m := range r.Items {
		if m.ID == id && m.CompanyID == companyID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) ListByProduct(companyID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Items {
		if m.CompanyID != companyID || m.ProductID != productID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, limit, offset), nil
}

func (r *MovementRepo) ListHistoryByProduct(companyID, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.Items {
		if m.CompanyID == companyID && m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MovementRepo) UpdateSnapshot(id string, stockAfter, averageCostAfter decimal.Decimal) error {
	for _, m := range r.Items {
		if m.ID == id {
			m.StockAfter = stockAfter
			m.AverageCostAfter = averageCostAfter
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MovementRepo) snapshot() []*entity.StockMovement {
	snap := make([]*entity.StockMovement, 0, len(r.Items))
	for _, m := range r.Items {
		cp := *m
		snap = append(snap, &cp)
	}
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// OrderRepo
// ──────────────────────────────────────────────────────────────────────────────

// OrderRepo implementación en memoria de repository.PurchaseOrderRepository.
// BeforeUpdateStatus permite intercalar una mutación justo antes del CAS para
// simular una transición concurrente.
type OrderRepo struct {
	Items              map[string]*entity.PurchaseOrder
	BeforeUpdateStatus func(id string)
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{Items: make(map[string]*entity.PurchaseOrder)}
}

func (r *OrderRepo) Seed(o *entity.PurchaseOrder) {
	cp := *o
	r.Items[o.ID] = &cp
}

func (r *OrderRepo) Create(order *entity.PurchaseOrder) error {
	cp := *order
	r.Items[order.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(companyID, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.Items[id]
	if !ok || o.CompanyID != companyID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepo) ListByCompany(companyID string, status entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.Items {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *OrderRepo) UpdateStatus(id string, from, to entity.PurchaseOrderStatus) (bool, error) {
	if r.BeforeUpdateStatus != nil {
		r.BeforeUpdateStatus(id)
	}
	o, ok := r.Items[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *OrderRepo) HasOpenAutoOrder(ctx context.Context, companyID, productID string) (bool, error) {
	for _, o := range r.Items {
		if o.CompanyID == companyID && o.ProductID == productID && o.AutoGenerated &&
			o.Status != entity.PurchaseOrderReceived && o.Status != entity.PurchaseOrderCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderRepo) snapshot() map[string]*entity.PurchaseOrder {
	snap := make(map[string]*entity.PurchaseOrder, len(r.Items))
	for k, v := range r.Items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckRepo
// ──────────────────────────────────────────────────────────────────────────────

// CheckRepo implementación en memoria de repository.InventoryCheckRepository.
// BeforeUpdateStatus, si está seteado, corre al inicio de UpdateStatus y
// permite simular escritores concurrentes entre la lectura y el CAS.
type CheckRepo struct {
	Items              map[string]*entity.InventoryCheck
	BeforeUpdateStatus func(id string)
}

func NewCheckRepo() *CheckRepo {
	return &CheckRepo{Items: make(map[string]*entity.InventoryCheck)}
}

func (r *CheckRepo) Seed(c *entity.InventoryCheck) {
	cp := *c
	cp.Lines = append([]entity.InventoryCheckLine(nil), c.Lines...)
	r.Items[c.ID] = &cp
}

func (r *CheckRepo) Create(check *entity.InventoryCheck) error {
	r.Seed(check)
	return nil
}

func (r *CheckRepo) GetByID(companyID, id string) (*entity.InventoryCheck, error) {
	c, ok := r.Items[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	cp := *c
	cp.Lines = append([]entity.InventoryCheckLine(nil), c.Lines...)
	return &cp, nil
}

func (r *CheckRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.InventoryCheck, error) {
	var out []*entity.InventoryCheck
	for _, c := range r.Items {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *CheckRepo) Update(check *entity.InventoryCheck) error {
	if _, ok := r.Items[check.ID]; !ok {
		return domain.ErrNotFound
	}
	r.Seed(check)
	return nil
}

func (r *CheckRepo) UpdateStatus(id string, from, to entity.InventoryCheckStatus) (bool, error) {
	if r.BeforeUpdateStatus != nil {
		r.BeforeUpdateStatus(id)
	}
	c, ok := r.Items[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return true, nil
}

func (r *CheckRepo) Delete(companyID, id string) error {
	c, ok := r.Items[id]
	if !ok || c.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

func (r *CheckRepo) NextCheckCode(ctx context.Context, companyID string, date time.Time) (string, error) {
	prefix := "KK-" + date.Format("20060102") + "-"
	max := 0
	for _, c := range r.Items {
		if c.CompanyID != companyID || len(c.CheckCode) <= len(prefix) || c.CheckCode[:len(prefix)] != prefix {
			continue
		}
		if n, err := strconv.Atoi(c.CheckCode[len(prefix):]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1), nil
}

func (r *CheckRepo) snapshot() map[string]*entity.InventoryCheck {
	snap := make(map[string]*entity.InventoryCheck, len(r.Items))
	for k, v := range r.Items {
		cp := *v
		cp.Lines = append([]entity.InventoryCheckLine(nil), v.Lines...)
		snap[k] = &cp
	}
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// SupplierRepo
// ──────────────────────────────────────────────────────────────────────────────

// SupplierRepo implementación en memoria de repository.SupplierRepository.
type SupplierRepo struct {
	Items map[string]*entity.Supplier
}

func NewSupplierRepo() *SupplierRepo {
	return &SupplierRepo{Items: make(map[string]*entity.Supplier)}
}

func (r *SupplierRepo) Seed(s *entity.Supplier) {
	cp := *s
	r.Items[s.ID] = &cp
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SupplierRepo) FirstActiveByCompany(companyID string) (*entity.Supplier, error) {
	var candidates []*entity.Supplier
	for _, s := range r.Items {
		if s.CompanyID == companyID && s.IsActive {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].CreatedAt.Before(candidates[j].CreatedAt) })
	cp := *candidates[0]
	return &cp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner ejecuta los callbacks contra los repos en memoria. Si el callback
// falla, restaura el estado previo para emular el rollback de la transacción.
type TxRunner struct {
	Products  *ProductRepo
	Movements *MovementRepo
	Orders    *OrderRepo
	Checks    *CheckRepo
}

func NewTxRunner(products *ProductRepo, movements *MovementRepo, orders *OrderRepo, checks *CheckRepo) *TxRunner {
	return &TxRunner{Products: products, Movements: movements, Orders: orders, Checks: checks}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	prodSnap := r.Products.snapshot()
	movSnap := r.Movements.snapshot()
	if err := fn(r.Movements, r.Products); err != nil {
		r.Products.Items = prodSnap
		r.Movements.Items = movSnap
		return err
	}
	return nil
}

func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	orderRepo repository.PurchaseOrderRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	prodSnap := r.Products.snapshot()
	movSnap := r.Movements.snapshot()
	orderSnap := r.Orders.snapshot()
	if err := fn(r.Orders, r.Movements, r.Products); err != nil {
		r.Products.Items = prodSnap
		r.Movements.Items = movSnap
		r.Orders.Items = orderSnap
		return err
	}
	return nil
}

func (r *TxRunner) RunCheck(ctx context.Context, fn func(
	checkRepo repository.InventoryCheckRepository,
	productRepo repository.ProductRepository,
) error) error {
	prodSnap := r.Products.snapshot()
	checkSnap := r.Checks.snapshot()
	if err := fn(r.Checks, r.Products); err != nil {
		r.Products.Items = prodSnap
		r.Checks.Items = checkSnap
		return err
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
