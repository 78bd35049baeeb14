package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain"
	"shopledger/internal/domain/ledger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStockRepo struct {
	aggs map[id.ID]*ledger.Aggregate
}

func (r *fakeStockRepo) GetByModelID(_ context.Context, modelID id.ID) (*ledger.Aggregate, error) {
	agg, ok := r.aggs[modelID]
	if !ok {
		return nil, apperror.NewNotFound("stock aggregate", modelID)
	}
	return agg, nil
}

func (r *fakeStockRepo) GetByModelIDs(_ context.Context, _ []id.ID) (map[id.ID]*ledger.Aggregate, error) {
	return nil, nil
}

func (r *fakeStockRepo) Create(_ context.Context, agg *ledger.Aggregate) error {
	r.aggs[agg.ModelID] = agg
	return nil
}

func (r *fakeStockRepo) ApplyFieldDeltas(_ context.Context, _ id.ID, _ ledger.FieldDeltas) (bool, error) {
	return false, nil
}

func (r *fakeStockRepo) List(_ context.Context, _ ledger.ListFilter) ([]ledger.Aggregate, error) {
	return nil, nil
}

type fakeModelRepo struct {
	models map[id.ID]*Model
}

func (r *fakeModelRepo) Create(_ context.Context, model *Model) error {
	copied := *model
	r.models[model.ID] = &copied
	return nil
}

func (r *fakeModelRepo) Update(_ context.Context, model *Model) error {
	if _, ok := r.models[model.ID]; !ok {
		return apperror.NewNotFound("model", model.ID)
	}
	copied := *model
	r.models[model.ID] = &copied
	return nil
}

func (r *fakeModelRepo) SetDeletionMark(_ context.Context, modelID id.ID, marked bool) error {
	model, ok := r.models[modelID]
	if !ok {
		return apperror.NewNotFound("model", modelID)
	}
	model.DeletionMark = marked
	return nil
}

func (r *fakeModelRepo) GetByID(_ context.Context, modelID id.ID) (*Model, error) {
	model, ok := r.models[modelID]
	if !ok {
		return nil, apperror.NewNotFound("model", modelID)
	}
	copied := *model
	return &copied, nil
}

func (r *fakeModelRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Model], error) {
	return domain.ListResult[*Model]{}, nil
}

func newTestService() (*Service, *fakeModelRepo, *fakeStockRepo) {
	modelRepo := &fakeModelRepo{models: make(map[id.ID]*Model)}
	stockRepo := &fakeStockRepo{aggs: make(map[id.ID]*ledger.Aggregate)}
	ledgerSvc := ledger.NewService(stockRepo, ledger.Config{}, nil)
	return NewService(modelRepo, ledgerSvc, passthroughTx{}), modelRepo, stockRepo
}

func TestCreate_CreatesAggregateRow(t *testing.T) {
	ctx := context.Background()
	svc, _, stockRepo := newTestService()

	model := NewModel("Air Max 90")
	require.NoError(t, svc.Create(ctx, model))

	agg, ok := stockRepo.aggs[model.ID]
	require.True(t, ok, "model must get its zero aggregate row at creation")
	assert.Equal(t, int64(0), agg.TotalInStock)
}

func TestCreate_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Create(context.Background(), NewModel(""))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDelete_KeepsAggregate(t *testing.T) {
	ctx := context.Background()
	svc, modelRepo, stockRepo := newTestService()

	model := NewModel("Air Max 90")
	require.NoError(t, svc.Create(ctx, model))
	require.NoError(t, svc.Delete(ctx, model.ID))

	stored, err := modelRepo.GetByID(ctx, model.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeletionMark)

	_, ok := stockRepo.aggs[model.ID]
	assert.True(t, ok, "aggregate survives model deletion for reporting")
}

func TestUpdate_BumpsVersion(t *testing.T) {
	ctx := context.Background()
	svc, modelRepo, _ := newTestService()

	model := NewModel("Air Max 90")
	require.NoError(t, svc.Create(ctx, model))

	model.Brand = "Nike"
	require.NoError(t, svc.Update(ctx, model))

	stored, err := modelRepo.GetByID(ctx, model.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, "Nike", stored.Brand)
}
