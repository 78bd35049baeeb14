// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain"
	"shopledger/internal/domain/catalog"
	"shopledger/internal/infrastructure/storage/postgres"
)

const modelsTable = "models"

var modelColumns = []string{
	"id", "deletion_mark", "version",
	"name", "brand", "article", "description",
}

// ModelRepo implements catalog.Repository.
type ModelRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewModelRepo creates a new model repository.
func NewModelRepo(txManager *postgres.TxManager) *ModelRepo {
	return &ModelRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new model.
func (r *ModelRepo) Create(ctx context.Context, model *catalog.Model) error {
	q := r.builder.Insert(modelsTable).
		Columns(modelColumns...).
		Values(
			model.ID, model.DeletionMark, model.Version,
			model.Name, model.Brand, model.Article, model.Description,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert model: %w", err)
	}

	return nil
}

// Update modifies a model with optimistic locking. The caller's Touch()
// already bumped the in-memory version; the WHERE clause matches the
// previous one.
func (r *ModelRepo) Update(ctx context.Context, model *catalog.Model) error {
	q := r.builder.Update(modelsTable).
		Set("name", model.Name).
		Set("brand", model.Brand).
		Set("article", model.Article).
		Set("description", model.Description).
		Set("deletion_mark", model.DeletionMark).
		Set("version", model.Version).
		Where(squirrel.Eq{"id": model.ID}).
		Where(squirrel.Eq{"version": model.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update model: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(modelsTable, model.ID)
	}

	return nil
}

// SetDeletionMark soft-deletes or restores the model.
func (r *ModelRepo) SetDeletionMark(ctx context.Context, modelID id.ID, marked bool) error {
	q := r.builder.Update(modelsTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": modelID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(modelsTable, modelID.String())
	}

	return nil
}

// GetByID retrieves a model by ID.
func (r *ModelRepo) GetByID(ctx context.Context, modelID id.ID) (*catalog.Model, error) {
	q := r.builder.Select(modelColumns...).
		From(modelsTable).
		Where(squirrel.Eq{"id": modelID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var model catalog.Model
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &model, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(modelsTable, modelID.String())
		}
		return nil, fmt.Errorf("get model: %w", err)
	}

	return &model, nil
}

// List retrieves models with filtering.
func (r *ModelRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*catalog.Model], error) {
	result := domain.ListResult[*catalog.Model]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.Select(modelColumns...).
		From(modelsTable)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"brand": pattern},
			squirrel.ILike{"article": pattern},
		})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("name")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select models: %w", err)
	}

	return result, nil
}

// Ensure interface compliance.
var _ catalog.Repository = (*ModelRepo)(nil)
