package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

var saleItemColumns = []string{
	"id", "sale_id", "model_id",
	"quantity", "unit_price", "total_price", "created_at",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sales.Sale]
	txManager *postgres.TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			salesTable,
			postgres.ExtractDBColumns[sales.Sale](),
			[]string{"customer_name", "description"},
			func() *sales.Sale { return &sales.Sale{} },
		),
		txManager: txManager,
	}
}

// GetItems retrieves all items for a sale.
func (r *SaleRepo) GetItems(ctx context.Context, docID id.ID) ([]sales.SaleItem, error) {
	q := r.Builder().
		Select(saleItemColumns...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": docID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.SaleItem
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// GetItem retrieves a single item.
func (r *SaleRepo) GetItem(ctx context.Context, itemID id.ID) (*sales.SaleItem, error) {
	q := r.Builder().
		Select(saleItemColumns...).
		From(saleItemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item sales.SaleItem
	if err := pgxscan.Get(ctx, r.Querier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(saleItemsTable, itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return &item, nil
}

// CreateItems batch inserts items.
func (r *SaleRepo) CreateItems(ctx context.Context, items []sales.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(items))
		for _, item := range items {
			rows = append(rows, []any{
				item.ID, item.SaleID, item.ModelID,
				item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, saleItemsTable, saleItemColumns, rows); err != nil {
			return fmt.Errorf("copy items: %w", err)
		}
		return nil
	}

	q := r.Builder().Insert(saleItemsTable).Columns(saleItemColumns...)
	for _, item := range items {
		q = q.Values(
			item.ID, item.SaleID, item.ModelID,
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
func (r *SaleRepo) UpdateItem(ctx context.Context, item *sales.SaleItem) error {
	q := r.Builder().
		Update(saleItemsTable).
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
		return apperror.NewNotFound(saleItemsTable, item.ID.String())
	}

	return nil
}

// DeleteItem removes one item row.
func (r *SaleRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.Builder().
		Delete(saleItemsTable).
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
		return apperror.NewNotFound(saleItemsTable, itemID.String())
	}

	return nil
}

// DeleteItems removes all item rows of a sale.
func (r *SaleRepo) DeleteItems(ctx context.Context, docID id.ID) error {
	q := r.Builder().
		Delete(saleItemsTable).
		Where(squirrel.Eq{"sale_id": docID})

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
var _ sales.Repository = (*SaleRepo)(nil)
