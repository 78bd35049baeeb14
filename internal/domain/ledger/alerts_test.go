package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

func TestAlertEngine_NegativeStock(t *testing.T) {
	engine, err := NewAlertEngine(DefaultAlertRules())
	require.NoError(t, err)

	agg := NewAggregate(id.New())
	agg.TotalInStock = -3

	assert.Equal(t, []string{"negative_stock"}, engine.Evaluate(agg))

	agg.TotalInStock = 0
	assert.Empty(t, engine.Evaluate(agg))
}

func TestAlertEngine_CustomRules(t *testing.T) {
	engine, err := NewAlertEngine([]AlertRule{
		{Name: "loss_making", Expression: "profit < 0.0 && salesQuantity > 0"},
		{Name: "low_stock", Expression: "inStock < 5"},
	})
	require.NoError(t, err)

	agg := NewAggregate(id.New())
	agg.TotalSalesQuantity = 2
	agg.TotalInStock = 3
	agg.Profit = types.NewMoneyFromInt(-100)

	assert.Equal(t, []string{"loss_making", "low_stock"}, engine.Evaluate(agg))
}

func TestNewAlertEngine_RejectsBadRules(t *testing.T) {
	_, err := NewAlertEngine([]AlertRule{{Name: "broken", Expression: "inStock <"}})
	assert.Error(t, err)

	_, err = NewAlertEngine([]AlertRule{{Name: "not_bool", Expression: "inStock + 1"}})
	assert.Error(t, err)
}

func TestAlertEngine_NilSafe(t *testing.T) {
	var engine *AlertEngine
	assert.Empty(t, engine.Evaluate(NewAggregate(id.New())))

	engine, err := NewAlertEngine(nil)
	require.NoError(t, err)
	assert.Empty(t, engine.Evaluate(nil))
}
