package catalog

import (
	"context"
	"fmt"

	"shopledger/internal/core/id"
	"shopledger/internal/core/tx"
	"shopledger/internal/domain"
	"shopledger/internal/domain/ledger"
	"shopledger/pkg/logger"
)

// Service provides business operations for product models.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	txManager tx.Manager
}

// NewService creates a new catalog service.
func NewService(repo Repository, ledgerSvc *ledger.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledgerSvc,
		txManager: txManager,
	}
}

// Create creates a model together with its zero stock aggregate, in one
// transaction. A model therefore always has an aggregate row from birth.
func (s *Service) Create(ctx context.Context, model *Model) error {
	if err := model.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, model); err != nil {
			return fmt.Errorf("create model: %w", err)
		}
		return s.ledger.EnsureAggregate(ctx, model.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "model created", "id", model.ID, "name", model.Name)

	return nil
}

// Update modifies a model.
func (s *Service) Update(ctx context.Context, model *Model) error {
	if err := model.Validate(ctx); err != nil {
		return err
	}

	model.Touch()

	if err := s.repo.Update(ctx, model); err != nil {
		return err
	}

	logger.Info(ctx, "model updated", "id", model.ID)

	return nil
}

// Delete soft-deletes a model. The stock aggregate stays: accumulated totals
// remain readable for reporting after the model is retired.
func (s *Service) Delete(ctx context.Context, modelID id.ID) error {
	if err := s.repo.SetDeletionMark(ctx, modelID, true); err != nil {
		return err
	}

	logger.Info(ctx, "model deleted", "id", modelID)

	return nil
}

// GetByID retrieves a model by ID.
func (s *Service) GetByID(ctx context.Context, modelID id.ID) (*Model, error) {
	return s.repo.GetByID(ctx, modelID)
}

// List retrieves models with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Model], error) {
	return s.repo.List(ctx, filter)
}
