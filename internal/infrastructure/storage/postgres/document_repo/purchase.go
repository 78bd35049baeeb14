package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain/purchases"
	"shopledger/internal/infrastructure/storage/postgres"
)

const (
	purchasesTable     = "purchases"
	purchaseItemsTable = "purchase_items"
)

var purchaseItemColumns = []string{
	"id", "purchase_id", "model_id",
	"quantity", "unit_price", "total_price", "created_at",
}

// PurchaseRepo implements purchases.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchases.Purchase]
	txManager *postgres.TxManager
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchasesTable,
			postgres.ExtractDBColumns[purchases.Purchase](),
			[]string{"supplier_name", "description"},
			func() *purchases.Purchase { return &purchases.Purchase{} },
		),
		txManager: txManager,
	}
}

// GetItems retrieves all items for a purchase.
func (r *PurchaseRepo) GetItems(ctx context.Context, docID id.ID) ([]purchases.PurchaseItem, error) {
	q := r.Builder().
		Select(purchaseItemColumns...).
		From(purchaseItemsTable).
		Where(squirrel.Eq{"purchase_id": docID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []purchases.PurchaseItem
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// GetItem retrieves a single item.
func (r *PurchaseRepo) GetItem(ctx context.Context, itemID id.ID) (*purchases.PurchaseItem, error) {
	q := r.Builder().
		Select(purchaseItemColumns...).
		From(purchaseItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item purchases.PurchaseItem
	if err := pgxscan.Get(ctx, r.Querier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(purchaseItemsTable, itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return &item, nil
}

// CreateItems batch inserts items.
func (r *PurchaseRepo) CreateItems(ctx context.Context, items []purchases.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(items))
		for _, item := range items {
			rows = append(rows, []any{
				item.ID, item.PurchaseID, item.ModelID,
				item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, purchaseItemsTable, purchaseItemColumns, rows); err != nil {
			return fmt.Errorf("copy items: %w", err)
		}
		return nil
	}

	q := r.Builder().Insert(purchaseItemsTable).Columns(purchaseItemColumns...)
	for _, item := range items {
		q = q.Values(
			item.ID, item.PurchaseID, item.ModelID,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// UpdateItem overwrites one item row.
func (r *PurchaseRepo) UpdateItem(ctx context.Context, item *purchases.PurchaseItem) error {
	q := r.Builder().
		Update(purchaseItemsTable).
		Set("model_id", item.ModelID).
		Set("quantity", item.Quantity).
		Set("unit_price", item.UnitPrice).
		Set("total_price", item.TotalPrice).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(purchaseItemsTable, item.ID.String())
	}

	return nil
}

// DeleteItem removes one item row.
func (r *PurchaseRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.Builder().
		Delete(purchaseItemsTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(purchaseItemsTable, itemID.String())
	}

	return nil
}

// DeleteItems removes all item rows of a purchase.
func (r *PurchaseRepo) DeleteItems(ctx context.Context, docID id.ID) error {
	q := r.Builder().
		Delete(purchaseItemsTable).
		Where(squirrel.Eq{"purchase_id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ purchases.Repository = (*PurchaseRepo)(nil)
