package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// memRepo is an in-memory Repository that mirrors the database-side atomic
// increment semantics: ApplyFieldDeltas fails softly when no row exists, and
// each apply is a serialized increment the way a single UPDATE statement is.
type memRepo struct {
	mu         sync.Mutex
	aggs       map[id.ID]*Aggregate
	applyCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{aggs: make(map[id.ID]*Aggregate)}
}

func (r *memRepo) GetByModelID(_ context.Context, modelID id.ID) (*Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg, ok := r.aggs[modelID]
	if !ok {
		return nil, apperror.NewNotFound("stock aggregate", modelID)
	}
	copied := *agg
	return &copied, nil
}

func (r *memRepo) GetByModelIDs(_ context.Context, modelIDs []id.ID) (map[id.ID]*Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[id.ID]*Aggregate, len(modelIDs))
	for _, modelID := range modelIDs {
		if agg, ok := r.aggs[modelID]; ok {
			copied := *agg
			out[modelID] = &copied
		}
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, agg *Aggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *agg
	r.aggs[agg.ModelID] = &copied
	return nil
}

func (r *memRepo) ApplyFieldDeltas(_ context.Context, modelID id.ID, fd FieldDeltas) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyCalls++
	agg, ok := r.aggs[modelID]
	if !ok {
		return false, nil
	}
	agg.TotalPurchasesQuantity += fd.PurchasesQuantity
	agg.TotalSalesQuantity += fd.SalesQuantity
	agg.TotalInStock += fd.InStock
	agg.TotalPurchasesPrice = agg.TotalPurchasesPrice.Add(fd.PurchasesPrice)
	agg.TotalSalesPrice = agg.TotalSalesPrice.Add(fd.SalesPrice)
	agg.Profit = agg.Profit.Add(fd.Profit)
	return true, nil
}

func (r *memRepo) List(_ context.Context, _ ListFilter) ([]Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Aggregate, 0, len(r.aggs))
	for _, agg := range r.aggs {
		out = append(out, *agg)
	}
	return out, nil
}

func TestApplyDelta(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()

	repo := newMemRepo()
	require.NoError(t, repo.Create(ctx, NewAggregate(modelID)))

	svc := NewService(repo, Config{}, nil)

	err := svc.ApplyDelta(ctx, modelID, Delta{Quantity: 5, TotalPrice: types.NewMoneyFromInt(250)}, KindPurchase)
	require.NoError(t, err)

	agg, err := svc.GetByModelID(ctx, modelID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), agg.TotalPurchasesQuantity)
	assert.Equal(t, int64(5), agg.TotalInStock)
	assert.True(t, types.NewMoneyFromInt(250).Equal(agg.TotalPurchasesPrice))
	assert.True(t, types.NewMoneyFromInt(-250).Equal(agg.Profit))
}

func TestApplyDelta_InvalidKind(t *testing.T) {
	svc := NewService(newMemRepo(), Config{}, nil)

	err := svc.ApplyDelta(context.Background(), id.New(), Delta{Quantity: 1}, Kind("transfer"))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyDelta_ZeroDeltaIsNoop(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, Config{}, nil)

	err := svc.ApplyDelta(context.Background(), id.New(), Delta{}, KindPurchase)

	require.NoError(t, err)
	assert.Equal(t, 0, repo.applyCalls, "zero delta must not reach the repository")
}

func TestApplyDelta_MissingAggregateIsSkipped(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, Config{}, nil)

	err := svc.ApplyDelta(context.Background(), id.New(), Delta{Quantity: 3, TotalPrice: types.NewMoneyFromInt(30)}, KindSale)

	require.NoError(t, err, "missing aggregate must not fail the transaction")
	assert.Empty(t, repo.aggs, "no row may be created without auto-create")
}

func TestApplyDelta_AutoCreate(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()

	repo := newMemRepo()
	svc := NewService(repo, Config{AutoCreate: true}, nil)

	err := svc.ApplyDelta(ctx, modelID, Delta{Quantity: 3, TotalPrice: types.NewMoneyFromInt(90)}, KindPurchase)
	require.NoError(t, err)

	agg, err := svc.GetByModelID(ctx, modelID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), agg.TotalInStock)
	assert.Equal(t, 2, repo.applyCalls, "skip, create, then retry once")
}

func TestApplyDeltas_OneApplyPerModel(t *testing.T) {
	ctx := context.Background()
	modelA := id.New()
	modelB := id.New()

	repo := newMemRepo()
	require.NoError(t, repo.Create(ctx, NewAggregate(modelA)))
	require.NoError(t, repo.Create(ctx, NewAggregate(modelB)))

	svc := NewService(repo, Config{}, nil)

	items := []LineItem{
		{ModelID: modelA, Quantity: 2, TotalPrice: types.NewMoneyFromInt(100)},
		{ModelID: modelB, Quantity: 1, TotalPrice: types.NewMoneyFromInt(70)},
		{ModelID: modelA, Quantity: 3, TotalPrice: types.NewMoneyFromInt(150)},
	}

	err := svc.ApplyDeltas(ctx, GroupByModel(items, CreateDelta), KindPurchase)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.applyCalls)

	aggA, err := svc.GetByModelID(ctx, modelA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), aggA.TotalPurchasesQuantity)
	assert.True(t, types.NewMoneyFromInt(250).Equal(aggA.TotalPurchasesPrice))
}

func TestApplyDelta_ConcurrentAppliesAllLand(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()

	repo := newMemRepo()
	require.NoError(t, repo.Create(ctx, NewAggregate(modelID)))

	svc := NewService(repo, Config{}, nil)

	// Concurrent sellers, one unit each. Increment-based applies must never
	// lose an update; a read-modify-write would.
	const sellers = 50
	var wg sync.WaitGroup
	errs := make(chan error, sellers)
	for i := 0; i < sellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.ApplyDelta(ctx, modelID, Delta{Quantity: 1, TotalPrice: types.NewMoneyFromInt(10)}, KindSale)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	agg, err := svc.GetByModelID(ctx, modelID)
	require.NoError(t, err)
	assert.Equal(t, int64(sellers), agg.TotalSalesQuantity)
	assert.Equal(t, int64(-sellers), agg.TotalInStock)
	assert.True(t, types.NewMoneyFromInt(10*sellers).Equal(agg.TotalSalesPrice))
	assert.NoError(t, agg.CheckInvariant())
}

func TestEnsureAggregate(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()

	repo := newMemRepo()
	svc := NewService(repo, Config{}, nil)

	require.NoError(t, svc.EnsureAggregate(ctx, modelID))

	agg, err := svc.GetByModelID(ctx, modelID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.TotalInStock)

	// Idempotent.
	require.NoError(t, svc.EnsureAggregate(ctx, modelID))
	assert.Len(t, repo.aggs, 1)
}
