package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

func TestEffectiveTotalPrice(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want types.Money
	}{
		{
			name: "explicit total wins",
			item: LineItem{Quantity: 3, UnitPrice: types.NewMoneyFromInt(50), TotalPrice: types.NewMoneyFromInt(120)},
			want: types.NewMoneyFromInt(120),
		},
		{
			name: "zero total defaults to unit price times quantity",
			item: LineItem{Quantity: 3, UnitPrice: types.NewMoneyFromInt(50)},
			want: types.NewMoneyFromInt(150),
		},
		{
			name: "zero unit price stays zero",
			item: LineItem{Quantity: 10},
			want: types.Zero(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.EffectiveTotalPrice()
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDeleteDelta_IsInverseOfCreate(t *testing.T) {
	item := LineItem{
		ModelID:    id.New(),
		Quantity:   7,
		UnitPrice:  types.NewMoneyFromInt(30),
		TotalPrice: types.NewMoneyFromInt(210),
	}

	sum := CreateDelta(item).Add(DeleteDelta(item))
	assert.True(t, sum.IsZero(), "create followed by delete must cancel out, got %+v", sum)
}

func TestDeleteDelta_UsesPersistedTotalVerbatim(t *testing.T) {
	// Persisted total disagrees with unit price * quantity. The deletion must
	// reverse what was actually recorded, not a recomputation.
	item := LineItem{
		ModelID:    id.New(),
		Quantity:   2,
		UnitPrice:  types.NewMoneyFromInt(100),
		TotalPrice: types.NewMoneyFromInt(150),
	}

	d := DeleteDelta(item)
	assert.Equal(t, int64(-2), d.Quantity)
	assert.True(t, types.NewMoneyFromInt(-150).Equal(d.TotalPrice))
}

func TestUpdateDelta(t *testing.T) {
	modelID := id.New()

	tests := []struct {
		name      string
		old       LineItem
		updated   LineItem
		wantQty   int64
		wantPrice types.Money
	}{
		{
			name:      "quantity and price increase",
			old:       LineItem{ModelID: modelID, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
			updated:   LineItem{ModelID: modelID, Quantity: 5, TotalPrice: types.NewMoneyFromInt(250)},
			wantQty:   3,
			wantPrice: types.NewMoneyFromInt(150),
		},
		{
			name:      "decrease goes negative",
			old:       LineItem{ModelID: modelID, Quantity: 5, TotalPrice: types.NewMoneyFromInt(250)},
			updated:   LineItem{ModelID: modelID, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
			wantQty:   -3,
			wantPrice: types.NewMoneyFromInt(-150),
		},
		{
			name:      "new total unset is recomputed from unit price",
			old:       LineItem{ModelID: modelID, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
			updated:   LineItem{ModelID: modelID, Quantity: 4, UnitPrice: types.NewMoneyFromInt(50)},
			wantQty:   2,
			wantPrice: types.NewMoneyFromInt(100),
		},
		{
			name:      "no change is zero",
			old:       LineItem{ModelID: modelID, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
			updated:   LineItem{ModelID: modelID, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
			wantQty:   0,
			wantPrice: types.Zero(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := UpdateDelta(tt.old, tt.updated)
			assert.Equal(t, tt.wantQty, d.Quantity)
			assert.True(t, tt.wantPrice.Equal(d.TotalPrice), "want %s got %s", tt.wantPrice, d.TotalPrice)
		})
	}
}

func TestUpdateDelta_EquivalentToDeletePlusCreate(t *testing.T) {
	old := LineItem{ModelID: id.New(), Quantity: 4, TotalPrice: types.NewMoneyFromInt(400)}
	updated := LineItem{ModelID: old.ModelID, Quantity: 9, TotalPrice: types.NewMoneyFromInt(720)}

	direct := UpdateDelta(old, updated)
	composed := DeleteDelta(old).Add(CreateDelta(updated))

	assert.Equal(t, composed.Quantity, direct.Quantity)
	assert.True(t, composed.TotalPrice.Equal(direct.TotalPrice))
}

func TestGroupByModel(t *testing.T) {
	modelA := id.New()
	modelB := id.New()

	items := []LineItem{
		{ModelID: modelA, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
		{ModelID: modelB, Quantity: 1, TotalPrice: types.NewMoneyFromInt(70)},
		{ModelID: modelA, Quantity: 3, TotalPrice: types.NewMoneyFromInt(150)},
	}

	grouped := GroupByModel(items, CreateDelta)

	// One entry per distinct model, first-appearance order.
	if assert.Len(t, grouped, 2) {
		assert.Equal(t, modelA, grouped[0].ModelID)
		assert.Equal(t, int64(5), grouped[0].Delta.Quantity)
		assert.True(t, types.NewMoneyFromInt(250).Equal(grouped[0].Delta.TotalPrice))

		assert.Equal(t, modelB, grouped[1].ModelID)
		assert.Equal(t, int64(1), grouped[1].Delta.Quantity)
		assert.True(t, types.NewMoneyFromInt(70).Equal(grouped[1].Delta.TotalPrice))
	}
}

func TestGroupByModel_Empty(t *testing.T) {
	assert.Empty(t, GroupByModel(nil, CreateDelta))
}
