package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jcastano/stockcore-api/internal/domain/inventory"
)

// TestCostCalculator_VectorReferencia valida el promedio ponderado con el
// vector de referencia: 100 uds a $10 + entrada de 50 uds a $20 = 150 uds a
// $13.33... (valor total $2000).
func TestCostCalculator_VectorReferencia(t *testing.T) {
	stock := decimal.NewFromInt(100)
	costo := decimal.NewFromInt(10)
	entrada := decimal.NewFromInt(50)
	costoEntrada := decimal.NewFromInt(20)

	nuevo := inventory.CostCalculator(stock, costo, entrada, costoEntrada)

	esperado := decimal.NewFromInt(2000).Div(decimal.NewFromInt(150)) // 13.333...
	assert.True(t, nuevo.Equal(esperado),
		"costo promedio esperado %s, obtenido %s", esperado, nuevo)

	valorTotal := stock.Add(entrada).Mul(nuevo)
	assert.True(t, valorTotal.Sub(decimal.NewFromInt(2000)).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"el valor total debe quedar en ~2000, obtenido %s", valorTotal)
}

// TestCostCalculator_EntradaCostoDistinto una entrada a costo distinto mueve el
// promedio al ponderado exacto: (100*10 + 50*16) / 150 = 12.
func TestCostCalculator_EntradaCostoDistinto(t *testing.T) {
	nuevo := inventory.CostCalculator(
		decimal.NewFromInt(100), decimal.NewFromInt(10),
		decimal.NewFromInt(50), decimal.NewFromInt(16),
	)
	assert.True(t, nuevo.Equal(decimal.NewFromInt(12)),
		"costo promedio esperado 12, obtenido %s", nuevo)
}

// TestCostCalculator_StockInicialCero la primera entrada fija el costo al de compra.
func TestCostCalculator_StockInicialCero(t *testing.T) {
	nuevo := inventory.CostCalculator(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(10), decimal.NewFromFloat(7.5),
	)
	assert.True(t, nuevo.Equal(decimal.NewFromFloat(7.5)))
}

// TestCostCalculator_SumaCeroConservaCosto si no hay base (stock resultante <= 0),
// el costo vigente se conserva en lugar de colapsar a cero.
func TestCostCalculator_SumaCeroConservaCosto(t *testing.T) {
	costoActual := decimal.NewFromInt(12)
	nuevo := inventory.CostCalculator(decimal.Zero, costoActual, decimal.Zero, decimal.NewFromInt(99))
	assert.True(t, nuevo.Equal(costoActual))
}

// TestCostCalculator_EntradaMismoCosto una entrada al mismo costo no mueve el promedio.
func TestCostCalculator_EntradaMismoCosto(t *testing.T) {
	costo := decimal.NewFromFloat(4.2)
	nuevo := inventory.CostCalculator(decimal.NewFromInt(30), costo, decimal.NewFromInt(70), costo)
	assert.True(t, nuevo.Equal(costo), "esperado %s, obtenido %s", costo, nuevo)
}
