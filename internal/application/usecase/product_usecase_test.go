package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/stockcore-api/internal/application/apptest"
	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/application/usecase"
	"github.com/jcastano/stockcore-api/internal/domain"
)

const testCompanyID = "00000000-0000-0000-0000-0000000000c1"

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func buildUC() (*usecase.ProductUseCase, *apptest.ProductRepo) {
	repo := apptest.NewProductRepo()
	return usecase.NewProductUseCase(repo), repo
}

func Test_Create_SinStockInicial(t *testing.T) {
	uc, _ := buildUC()

	p, err := uc.Create(testCompanyID, dto.CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Guantes de nitrilo",
		Price:        d(30),
		ReorderLevel: d(10),
		LeadTimeDays: 5,
	})
	require.NoError(t, err)

	assert.True(t, p.CurrentStock.IsZero())
	assert.True(t, p.AverageCost.IsZero())
	assert.True(t, p.IsActive)
}

func Test_Create_ConStockSemilla(t *testing.T) {
	uc, _ := buildUC()

	stock, cost := d(100), d(8)
	p, err := uc.Create(testCompanyID, dto.CreateProductRequest{
		SKU:          "SKU-002",
		Name:         "Caja de cartón",
		InitialStock: &stock,
		InitialCost:  &cost,
	})
	require.NoError(t, err)

	assert.True(t, p.CurrentStock.Equal(d(100)))
	assert.True(t, p.AverageCost.Equal(d(8)))
	assert.True(t, p.TotalValue.Equal(d(800)))
}

func Test_Create_SKURepetido_Duplicate(t *testing.T) {
	uc, _ := buildUC()

	_, err := uc.Create(testCompanyID, dto.CreateProductRequest{SKU: "SKU-001", Name: "A"})
	require.NoError(t, err)

	_, err = uc.Create(testCompanyID, dto.CreateProductRequest{SKU: "SKU-001", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo SKU en otra empresa no colisiona
	_, err = uc.Create("otra-empresa", dto.CreateProductRequest{SKU: "SKU-001", Name: "C"})
	assert.NoError(t, err)
}

// La actualización de catálogo nunca toca el estado de stock.
func Test_Update_NoTocaEstadoDeStock(t *testing.T) {
	uc, repo := buildUC()

	stock, cost := d(100), d(8)
	created, err := uc.Create(testCompanyID, dto.CreateProductRequest{
		SKU:          "SKU-001",
		Name:         "Caja de cartón",
		InitialStock: &stock,
		InitialCost:  &cost,
	})
	require.NoError(t, err)

	name := "Caja de cartón reforzada"
	price := d(45)
	updated, err := uc.Update(testCompanyID, created.ID, dto.UpdateProductRequest{
		Name:  &name,
		Price: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "Caja de cartón reforzada", updated.Name)
	stored, _ := repo.GetByID(created.ID)
	assert.True(t, stored.CurrentStock.Equal(d(100)), "el stock no cambia por update de catálogo")
	assert.True(t, stored.AverageCost.Equal(d(8)))
}

func Test_GetByID_OtraEmpresa_NotFound(t *testing.T) {
	uc, _ := buildUC()
	created, err := uc.Create(testCompanyID, dto.CreateProductRequest{SKU: "SKU-001", Name: "A"})
	require.NoError(t, err)

	_, err = uc.GetByID("otra-empresa", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
