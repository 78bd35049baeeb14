package ledger

import (
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// Delta is a signed (quantity, totalPrice) pair: the net change one operation
// applies to an aggregate. Positive for creates, negative for deletions,
// either sign for updates.
type Delta struct {
	Quantity   int64
	TotalPrice types.Money
}

// Add returns the sum of two deltas.
func (d Delta) Add(o Delta) Delta {
	return Delta{
		Quantity:   d.Quantity + o.Quantity,
		TotalPrice: d.TotalPrice.Add(o.TotalPrice),
	}
}

// Neg returns the inverse delta.
func (d Delta) Neg() Delta {
	return Delta{
		Quantity:   -d.Quantity,
		TotalPrice: d.TotalPrice.Neg(),
	}
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d.Quantity == 0 && d.TotalPrice.IsZero()
}

// LineItem carries the fields of a purchase or sale item that drive the
// ledger. The items themselves are owned by the purchases/sales subsystems;
// this is the slice the ledger needs.
type LineItem struct {
	ModelID    id.ID
	Quantity   int64
	UnitPrice  types.Money
	TotalPrice types.Money
}

// EffectiveTotalPrice returns the item's total price, computing
// unitPrice * quantity when the stored total is zero/unset. This
// default applies uniformly to every create path, batch items included.
func (li LineItem) EffectiveTotalPrice() types.Money {
	if !li.TotalPrice.IsZero() {
		return li.TotalPrice
	}
	return li.UnitPrice.Mul(types.NewMoneyFromInt(li.Quantity))
}

// CreateDelta computes the delta for a newly created item: (+qty, +total).
func CreateDelta(item LineItem) Delta {
	return Delta{
		Quantity:   item.Quantity,
		TotalPrice: item.EffectiveTotalPrice(),
	}
}

// DeleteDelta computes the delta for a removed item: the exact inverse of the
// persisted values, not recomputed from unit price.
func DeleteDelta(item LineItem) Delta {
	return Delta{
		Quantity:   -item.Quantity,
		TotalPrice: item.TotalPrice.Neg(),
	}
}

// UpdateDelta computes the delta between the persisted item and its requested
// replacement. The new total follows the same zero-means-recompute rule as
// create; the old total is taken from the persisted row as-is.
func UpdateDelta(old, updated LineItem) Delta {
	return Delta{
		Quantity:   updated.Quantity - old.Quantity,
		TotalPrice: updated.EffectiveTotalPrice().Sub(old.TotalPrice),
	}
}

// ModelDelta pairs a model with its accumulated delta.
type ModelDelta struct {
	ModelID id.ID
	Delta   Delta
}

// GroupByModel accumulates per-item deltas by model, preserving
// first-appearance order, so a batch issues exactly one ledger apply per
// distinct model regardless of how many items reference it.
func GroupByModel(items []LineItem, deltaOf func(LineItem) Delta) []ModelDelta {
	index := make(map[id.ID]int, len(items))
	grouped := make([]ModelDelta, 0, len(items))

	for _, item := range items {
		d := deltaOf(item)
		if i, ok := index[item.ModelID]; ok {
			grouped[i].Delta = grouped[i].Delta.Add(d)
			continue
		}
		index[item.ModelID] = len(grouped)
		grouped = append(grouped, ModelDelta{ModelID: item.ModelID, Delta: d})
	}

	return grouped
}
