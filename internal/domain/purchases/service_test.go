package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain"
	"shopledger/internal/domain/ledger"
)

// passthroughTx runs the function directly; transaction mechanics are
// exercised in the storage layer tests.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStockRepo struct {
	aggs map[id.ID]*ledger.Aggregate
}

func newFakeStockRepo(modelIDs ...id.ID) *fakeStockRepo {
	r := &fakeStockRepo{aggs: make(map[id.ID]*ledger.Aggregate)}
	for _, modelID := range modelIDs {
		r.aggs[modelID] = ledger.NewAggregate(modelID)
	}
	return r
}

func (r *fakeStockRepo) GetByModelID(_ context.Context, modelID id.ID) (*ledger.Aggregate, error) {
	agg, ok := r.aggs[modelID]
	if !ok {
		return nil, apperror.NewNotFound("stock aggregate", modelID)
	}
	return agg, nil
}

func (r *fakeStockRepo) GetByModelIDs(_ context.Context, modelIDs []id.ID) (map[id.ID]*ledger.Aggregate, error) {
	out := make(map[id.ID]*ledger.Aggregate)
	for _, modelID := range modelIDs {
		if agg, ok := r.aggs[modelID]; ok {
			out[modelID] = agg
		}
	}
	return out, nil
}

func (r *fakeStockRepo) Create(_ context.Context, agg *ledger.Aggregate) error {
	r.aggs[agg.ModelID] = agg
	return nil
}

func (r *fakeStockRepo) ApplyFieldDeltas(_ context.Context, modelID id.ID, fd ledger.FieldDeltas) (bool, error) {
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

func (r *fakeStockRepo) List(_ context.Context, _ ledger.ListFilter) ([]ledger.Aggregate, error) {
	return nil, nil
}

// fakeRepo is an in-memory purchases.Repository.
type fakeRepo struct {
	docs  map[id.ID]*Purchase
	items map[id.ID]*PurchaseItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]*Purchase),
		items: make(map[id.ID]*PurchaseItem),
	}
}

func (r *fakeRepo) Create(_ context.Context, doc *Purchase) error {
	stored := *doc
	stored.Items = nil
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeRepo) Update(_ context.Context, doc *Purchase) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("purchase", doc.ID)
	}
	updated := *doc
	updated.Items = nil
	*stored = updated
	return nil
}

func (r *fakeRepo) SetDeletionMark(_ context.Context, docID id.ID, marked bool) error {
	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("purchase", docID)
	}
	doc.DeletionMark = marked
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Purchase, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase", docID)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Purchase], error) {
	return domain.ListResult[*Purchase]{}, nil
}

func (r *fakeRepo) GetItems(_ context.Context, docID id.ID) ([]PurchaseItem, error) {
	var out []PurchaseItem
	for _, item := range r.items {
		if item.PurchaseID == docID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetItem(_ context.Context, itemID id.ID) (*PurchaseItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("purchase item", itemID)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeRepo) CreateItems(_ context.Context, items []PurchaseItem) error {
	for _, item := range items {
		copied := item
		r.items[item.ID] = &copied
	}
	return nil
}

func (r *fakeRepo) UpdateItem(_ context.Context, item *PurchaseItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFound("purchase item", item.ID)
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeRepo) DeleteItem(_ context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeRepo) DeleteItems(_ context.Context, docID id.ID) error {
	for itemID, item := range r.items {
		if item.PurchaseID == docID {
			delete(r.items, itemID)
		}
	}
	return nil
}

func newTestService(stockRepo *fakeStockRepo) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	ledgerSvc := ledger.NewService(stockRepo, ledger.Config{}, nil)
	return NewService(repo, ledgerSvc, passthroughTx{}, nil), repo
}

func testPurchase(items ...PurchaseItem) *Purchase {
	doc := NewPurchase()
	doc.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	doc.SupplierName = "Acme Wholesale"
	doc.Items = items
	return doc
}

func TestCreate_PostsGroupedDeltas(t *testing.T) {
	ctx := context.Background()
	modelA := id.New()
	modelB := id.New()
	stockRepo := newFakeStockRepo(modelA, modelB)
	svc, repo := newTestService(stockRepo)

	doc := testPurchase(
		PurchaseItem{ModelID: modelA, Quantity: 2, UnitPrice: types.NewMoneyFromInt(50)},
		PurchaseItem{ModelID: modelB, Quantity: 1, UnitPrice: types.NewMoneyFromInt(70)},
		PurchaseItem{ModelID: modelA, Quantity: 3, UnitPrice: types.NewMoneyFromInt(50)},
	)

	require.NoError(t, svc.Create(ctx, doc))

	aggA := stockRepo.aggs[modelA]
	assert.Equal(t, int64(5), aggA.TotalPurchasesQuantity)
	assert.Equal(t, int64(5), aggA.TotalInStock)
	assert.True(t, types.NewMoneyFromInt(250).Equal(aggA.TotalPurchasesPrice))
	assert.True(t, types.NewMoneyFromInt(-250).Equal(aggA.Profit))

	aggB := stockRepo.aggs[modelB]
	assert.Equal(t, int64(1), aggB.TotalPurchasesQuantity)

	// Document total defaulted to the sum of item totals.
	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, types.NewMoneyFromInt(320).Equal(stored.TotalPrice))

	items, err := repo.GetItems(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestCreate_RequiresItems(t *testing.T) {
	svc, _ := newTestService(newFakeStockRepo())

	err := svc.Create(context.Background(), testPurchase())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDelete_ReversesLedgerAndKeepsItems(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	stockRepo := newFakeStockRepo(modelID)
	svc, repo := newTestService(stockRepo)

	doc := testPurchase(PurchaseItem{ModelID: modelID, Quantity: 2, UnitPrice: types.NewMoneyFromInt(100)})
	require.NoError(t, svc.Create(ctx, doc))

	require.NoError(t, svc.Delete(ctx, doc.ID))

	agg := stockRepo.aggs[modelID]
	assert.Equal(t, int64(0), agg.TotalPurchasesQuantity)
	assert.Equal(t, int64(0), agg.TotalInStock)
	assert.True(t, agg.Profit.IsZero(), "deleting a 200 purchase must give back the 200 of profit")

	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeletionMark)

	items, err := repo.GetItems(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "item rows survive the soft delete")
}

func TestDelete_AlreadyDeleted(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	svc, _ := newTestService(newFakeStockRepo(modelID))

	doc := testPurchase(PurchaseItem{ModelID: modelID, Quantity: 1, UnitPrice: types.NewMoneyFromInt(10)})
	require.NoError(t, svc.Create(ctx, doc))
	require.NoError(t, svc.Delete(ctx, doc.ID))

	err := svc.Delete(ctx, doc.ID)
	assert.Error(t, err)
}

func TestCreateItem_UpdatesDocumentTotal(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	stockRepo := newFakeStockRepo(modelID)
	svc, repo := newTestService(stockRepo)

	doc := testPurchase(PurchaseItem{ModelID: modelID, Quantity: 1, UnitPrice: types.NewMoneyFromInt(100)})
	require.NoError(t, svc.Create(ctx, doc))

	item := &PurchaseItem{ModelID: modelID, Quantity: 3, UnitPrice: types.NewMoneyFromInt(50)}
	require.NoError(t, svc.CreateItem(ctx, doc.ID, item))

	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, types.NewMoneyFromInt(250).Equal(stored.TotalPrice))

	agg := stockRepo.aggs[modelID]
	assert.Equal(t, int64(4), agg.TotalInStock)
}

func TestCreateItem_RejectsDeletedDocument(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	svc, _ := newTestService(newFakeStockRepo(modelID))

	doc := testPurchase(PurchaseItem{ModelID: modelID, Quantity: 1, UnitPrice: types.NewMoneyFromInt(10)})
	require.NoError(t, svc.Create(ctx, doc))
	require.NoError(t, svc.Delete(ctx, doc.ID))

	err := svc.CreateItem(ctx, doc.ID, &PurchaseItem{ModelID: modelID, Quantity: 1, UnitPrice: types.NewMoneyFromInt(10)})
	assert.Error(t, err)
}

func TestUpdateItem_PostsDifference(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	stockRepo := newFakeStockRepo(modelID)
	svc, repo := newTestService(stockRepo)

	doc := testPurchase(PurchaseItem{ModelID: modelID, Quantity: 2, UnitPrice: types.NewMoneyFromInt(50)})
	require.NoError(t, svc.Create(ctx, doc))
	itemID := doc.Items[0].ID

	updated := &PurchaseItem{ID: itemID, ModelID: modelID, Quantity: 5, UnitPrice: types.NewMoneyFromInt(50)}
	require.NoError(t, svc.UpdateItem(ctx, updated))

	agg := stockRepo.aggs[modelID]
	assert.Equal(t, int64(5), agg.TotalPurchasesQuantity)
	assert.True(t, types.NewMoneyFromInt(250).Equal(agg.TotalPurchasesPrice))

	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, types.NewMoneyFromInt(250).Equal(stored.TotalPrice))
}

func TestUpdateItem_ModelChangeMovesBetweenAggregates(t *testing.T) {
	ctx := context.Background()
	modelA := id.New()
	modelB := id.New()
	stockRepo := newFakeStockRepo(modelA, modelB)
	svc, _ := newTestService(stockRepo)

	doc := testPurchase(PurchaseItem{ModelID: modelA, Quantity: 2, UnitPrice: types.NewMoneyFromInt(100)})
	require.NoError(t, svc.Create(ctx, doc))
	itemID := doc.Items[0].ID

	moved := &PurchaseItem{ID: itemID, ModelID: modelB, Quantity: 2, UnitPrice: types.NewMoneyFromInt(100)}
	require.NoError(t, svc.UpdateItem(ctx, moved))

	aggA := stockRepo.aggs[modelA]
	assert.Equal(t, int64(0), aggA.TotalPurchasesQuantity)
	assert.True(t, aggA.TotalPurchasesPrice.IsZero())

	aggB := stockRepo.aggs[modelB]
	assert.Equal(t, int64(2), aggB.TotalPurchasesQuantity)
	assert.True(t, types.NewMoneyFromInt(200).Equal(aggB.TotalPurchasesPrice))
}

func TestDeleteItem_ReversesContribution(t *testing.T) {
	ctx := context.Background()
	modelID := id.New()
	stockRepo := newFakeStockRepo(modelID)
	svc, repo := newTestService(stockRepo)

	doc := testPurchase(
		PurchaseItem{ModelID: modelID, Quantity: 2, UnitPrice: types.NewMoneyFromInt(100)},
		PurchaseItem{ModelID: modelID, Quantity: 1, UnitPrice: types.NewMoneyFromInt(50)},
	)
	require.NoError(t, svc.Create(ctx, doc))

	require.NoError(t, svc.DeleteItem(ctx, doc.Items[0].ID))

	agg := stockRepo.aggs[modelID]
	assert.Equal(t, int64(1), agg.TotalInStock)
	assert.True(t, types.NewMoneyFromInt(50).Equal(agg.TotalPurchasesPrice))

	stored, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, types.NewMoneyFromInt(50).Equal(stored.TotalPrice))

	items, err := repo.GetItems(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "single-item delete removes the row")
}

func TestCreate_MissingAggregateDoesNotFail(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(newFakeStockRepo())

	doc := testPurchase(PurchaseItem{ModelID: id.New(), Quantity: 1, UnitPrice: types.NewMoneyFromInt(10)})

	require.NoError(t, svc.Create(ctx, doc), "a model without an aggregate row must not block the document")

	items, err := repo.GetItems(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
