// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain/ledger"
	"shopledger/internal/infrastructure/storage/postgres"
)

const stocksTable = "stocks"

var stockColumns = []string{
	"model_id",
	"total_purchases_quantity", "total_sales_quantity", "total_in_stock",
	"total_purchases_price", "total_sales_price", "profit",
	"updated_at",
}

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByModelID returns the aggregate for a model.
func (r *StockRepo) GetByModelID(ctx context.Context, modelID id.ID) (*ledger.Aggregate, error) {
	q := r.builder.Select(stockColumns...).
		From(stocksTable).
		Where(squirrel.Eq{"model_id": modelID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var agg ledger.Aggregate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &agg, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock aggregate", modelID.String())
		}
		return nil, fmt.Errorf("get stock aggregate: %w", err)
	}

	return &agg, nil
}

// GetByModelIDs returns aggregates for a set of models.
// Missing models are simply absent from the result map.
func (r *StockRepo) GetByModelIDs(ctx context.Context, modelIDs []id.ID) (map[id.ID]*ledger.Aggregate, error) {
	if len(modelIDs) == 0 {
		return map[id.ID]*ledger.Aggregate{}, nil
	}

	q := r.builder.Select(stockColumns...).
		From(stocksTable).
		Where(squirrel.Eq{"model_id": modelIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var aggs []*ledger.Aggregate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &aggs, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock aggregates: %w", err)
	}

	result := make(map[id.ID]*ledger.Aggregate, len(aggs))
	for _, agg := range aggs {
		result[agg.ModelID] = agg
	}

	return result, nil
}

// Create inserts a zero aggregate row for a model.
func (r *StockRepo) Create(ctx context.Context, agg *ledger.Aggregate) error {
	q := r.builder.Insert(stocksTable).
		Columns(stockColumns...).
		Values(
			agg.ModelID,
			agg.TotalPurchasesQuantity, agg.TotalSalesQuantity, agg.TotalInStock,
			agg.TotalPurchasesPrice, agg.TotalSalesPrice, agg.Profit,
			agg.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock aggregate: %w", err)
	}

	return nil
}

// ApplyFieldDeltas performs the database-side atomic increments for one model.
// The counters are adjusted in a single UPDATE, so concurrent applies to the
// same model serialize on the row lock and no increment is ever lost.
func (r *StockRepo) ApplyFieldDeltas(ctx context.Context, modelID id.ID, fd ledger.FieldDeltas) (bool, error) {
	q := r.builder.Update(stocksTable).
		Set("total_purchases_quantity", squirrel.Expr("total_purchases_quantity + ?", fd.PurchasesQuantity)).
		Set("total_sales_quantity", squirrel.Expr("total_sales_quantity + ?", fd.SalesQuantity)).
		Set("total_in_stock", squirrel.Expr("total_in_stock + ?", fd.InStock)).
		Set("total_purchases_price", squirrel.Expr("total_purchases_price + ?", fd.PurchasesPrice)).
		Set("total_sales_price", squirrel.Expr("total_sales_price + ?", fd.SalesPrice)).
		Set("profit", squirrel.Expr("profit + ?", fd.Profit)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"model_id": modelID})

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("apply field deltas: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// List returns aggregates with filtering.
func (r *StockRepo) List(ctx context.Context, filter ledger.ListFilter) ([]ledger.Aggregate, error) {
	q := r.builder.Select(stockColumns...).
		From(stocksTable)

	if len(filter.ModelIDs) > 0 {
		q = q.Where(squirrel.Eq{"model_id": filter.ModelIDs})
	}

	if filter.InStockBelow != nil {
		q = q.Where(squirrel.Lt{"total_in_stock": *filter.InStockBelow})
	}

	q = q.OrderBy("model_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var aggs []ledger.Aggregate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &aggs, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock aggregates: %w", err)
	}

	return aggs, nil
}

// Ensure interface compliance.
var _ ledger.Repository = (*StockRepo)(nil)
