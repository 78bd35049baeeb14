package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

func TestFieldDeltas_Purchase(t *testing.T) {
	u := NewUpdater(ProfitLegacy)

	fd := u.FieldDeltas(Delta{Quantity: 2, TotalPrice: types.NewMoneyFromInt(200)}, KindPurchase)

	assert.Equal(t, int64(2), fd.PurchasesQuantity)
	assert.Equal(t, int64(0), fd.SalesQuantity)
	assert.Equal(t, int64(2), fd.InStock)
	assert.True(t, types.NewMoneyFromInt(200).Equal(fd.PurchasesPrice))
	assert.True(t, fd.SalesPrice.IsZero())
	assert.True(t, types.NewMoneyFromInt(-200).Equal(fd.Profit), "buying stock reduces profit")
}

func TestFieldDeltas_Sale(t *testing.T) {
	delta := Delta{Quantity: 5, TotalPrice: types.NewMoneyFromInt(500)}

	t.Run("legacy convention subtracts sale price", func(t *testing.T) {
		fd := NewUpdater(ProfitLegacy).FieldDeltas(delta, KindSale)

		assert.Equal(t, int64(5), fd.SalesQuantity)
		assert.Equal(t, int64(-5), fd.InStock, "selling must take units out of stock")
		assert.True(t, types.NewMoneyFromInt(500).Equal(fd.SalesPrice))
		assert.True(t, types.NewMoneyFromInt(-500).Equal(fd.Profit))
	})

	t.Run("net convention adds sale price", func(t *testing.T) {
		fd := NewUpdater(ProfitNet).FieldDeltas(delta, KindSale)

		assert.True(t, types.NewMoneyFromInt(500).Equal(fd.Profit))
	})

	t.Run("sale reversal restores stock", func(t *testing.T) {
		fd := NewUpdater(ProfitLegacy).FieldDeltas(delta.Neg(), KindSale)

		assert.Equal(t, int64(-5), fd.SalesQuantity)
		assert.Equal(t, int64(5), fd.InStock)
	})
}

func TestApply_MaintainsStockInvariant(t *testing.T) {
	u := NewUpdater(ProfitLegacy)
	agg := NewAggregate(id.New())

	u.Apply(agg, Delta{Quantity: 10, TotalPrice: types.NewMoneyFromInt(1000)}, KindPurchase)
	u.Apply(agg, Delta{Quantity: 4, TotalPrice: types.NewMoneyFromInt(600)}, KindSale)
	u.Apply(agg, Delta{Quantity: -2, TotalPrice: types.NewMoneyFromInt(-200)}, KindPurchase)

	assert.NoError(t, agg.CheckInvariant())
	assert.Equal(t, int64(8), agg.TotalPurchasesQuantity)
	assert.Equal(t, int64(4), agg.TotalSalesQuantity)
	assert.Equal(t, int64(4), agg.TotalInStock)
}

func TestApply_SaleScenario(t *testing.T) {
	// Sell 5 units for 500 total against existing stock of 10.
	u := NewUpdater(ProfitLegacy)
	agg := NewAggregate(id.New())
	agg.TotalPurchasesQuantity = 10
	agg.TotalInStock = 10
	agg.TotalPurchasesPrice = types.NewMoneyFromInt(800)
	agg.Profit = types.NewMoneyFromInt(-800)

	u.Apply(agg, Delta{Quantity: 5, TotalPrice: types.NewMoneyFromInt(500)}, KindSale)

	assert.Equal(t, int64(5), agg.TotalSalesQuantity)
	assert.Equal(t, int64(5), agg.TotalInStock)
	assert.True(t, types.NewMoneyFromInt(500).Equal(agg.TotalSalesPrice))
	assert.True(t, types.NewMoneyFromInt(-1300).Equal(agg.Profit))
	assert.NoError(t, agg.CheckInvariant())
}

func TestApply_PurchaseDeletionReversesExactly(t *testing.T) {
	u := NewUpdater(ProfitLegacy)
	agg := NewAggregate(id.New())

	create := Delta{Quantity: 2, TotalPrice: types.NewMoneyFromInt(200)}
	u.Apply(agg, create, KindPurchase)
	u.Apply(agg, create.Neg(), KindPurchase)

	assert.Equal(t, int64(0), agg.TotalPurchasesQuantity)
	assert.Equal(t, int64(0), agg.TotalInStock)
	assert.True(t, agg.TotalPurchasesPrice.IsZero())
	assert.True(t, agg.Profit.IsZero(), "deleting a 200 purchase must give profit back")
	assert.NoError(t, agg.CheckInvariant())
}

func TestApply_NilAggregateIsNoop(t *testing.T) {
	u := NewUpdater(ProfitLegacy)

	// Must not panic.
	u.Apply(nil, Delta{Quantity: 1, TotalPrice: types.NewMoneyFromInt(10)}, KindPurchase)
}

func TestApply_CanDriveStockNegative(t *testing.T) {
	u := NewUpdater(ProfitLegacy)
	agg := NewAggregate(id.New())

	u.Apply(agg, Delta{Quantity: 3, TotalPrice: types.NewMoneyFromInt(300)}, KindSale)

	assert.Equal(t, int64(-3), agg.TotalInStock)
	assert.NoError(t, agg.CheckInvariant())
}
