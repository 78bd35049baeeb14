package ledger

import (
	"context"
	"fmt"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/pkg/logger"
)

// Config holds ledger behavior switches.
type Config struct {
	// AutoCreate inserts a zero aggregate row on first reference instead of
	// skipping the update when the row is missing.
	AutoCreate bool

	// Convention selects the profit sign convention (legacy by default).
	Convention ProfitConvention
}

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller (purchase/sale command handlers):
// every Apply* call must run inside the same transaction as the line-item
// write it reflects, so the ledger can never diverge from recorded history.
type Service struct {
	repo       Repository
	updater    *Updater
	autoCreate bool
	alerts     *AlertEngine
}

// NewService creates a new ledger service. alerts may be nil.
func NewService(repo Repository, cfg Config, alerts *AlertEngine) *Service {
	return &Service{
		repo:       repo,
		updater:    NewUpdater(cfg.Convention),
		autoCreate: cfg.AutoCreate,
		alerts:     alerts,
	}
}

// Updater exposes the delta-to-counters mapping (used by tests and reports).
func (s *Service) Updater() *Updater {
	return s.updater
}

// ApplyDelta applies one signed delta to a model's aggregate.
//
// The write is a single atomic database-side increment, not read-modify-write,
// so concurrent applies to the same model cannot lose updates. A missing
// aggregate row is a logged no-op (or an auto-created row when configured),
// never an error: the enclosing transaction must not fail because a model has
// no stock history yet.
func (s *Service) ApplyDelta(ctx context.Context, modelID id.ID, delta Delta, kind Kind) error {
	if !kind.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown ledger kind %q", kind))
	}
	if id.IsNil(modelID) {
		return apperror.NewValidation("model id is required")
	}
	if delta.IsZero() {
		return nil
	}

	fd := s.updater.FieldDeltas(delta, kind)

	applied, err := s.repo.ApplyFieldDeltas(ctx, modelID, fd)
	if err != nil {
		return fmt.Errorf("apply ledger delta: %w", err)
	}

	if !applied {
		if !s.autoCreate {
			logger.Warn(ctx, "stock aggregate missing, ledger update skipped",
				"model_id", modelID,
				"kind", kind,
				"quantity", delta.Quantity,
			)
			return nil
		}

		if err := s.repo.Create(ctx, NewAggregate(modelID)); err != nil {
			return fmt.Errorf("auto-create stock aggregate: %w", err)
		}
		applied, err = s.repo.ApplyFieldDeltas(ctx, modelID, fd)
		if err != nil {
			return fmt.Errorf("apply ledger delta after create: %w", err)
		}
		if !applied {
			return apperror.NewInternal(fmt.Errorf("stock aggregate %s vanished after create", modelID))
		}
		logger.Info(ctx, "stock aggregate auto-created", "model_id", modelID)
	}

	s.evaluateAlerts(ctx, modelID)

	return nil
}

// ApplyDeltas applies grouped deltas, one per distinct model. Callers group
// with GroupByModel so a batch touches each aggregate exactly once.
func (s *Service) ApplyDeltas(ctx context.Context, deltas []ModelDelta, kind Kind) error {
	for _, md := range deltas {
		if err := s.ApplyDelta(ctx, md.ModelID, md.Delta, kind); err != nil {
			return err
		}
	}
	return nil
}

// GetByModelID returns the aggregate for a model.
func (s *Service) GetByModelID(ctx context.Context, modelID id.ID) (*Aggregate, error) {
	return s.repo.GetByModelID(ctx, modelID)
}

// List returns aggregates with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Aggregate, error) {
	return s.repo.List(ctx, filter)
}

// EnsureAggregate creates the zero row for a freshly created model.
// Called by the catalog service inside the model-create transaction.
func (s *Service) EnsureAggregate(ctx context.Context, modelID id.ID) error {
	_, err := s.repo.GetByModelID(ctx, modelID)
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	if err := s.repo.Create(ctx, NewAggregate(modelID)); err != nil {
		return fmt.Errorf("create stock aggregate: %w", err)
	}

	logger.Info(ctx, "stock aggregate created", "model_id", modelID)
	return nil
}

// evaluateAlerts runs alert rules against the post-apply aggregate state.
// Best-effort: read or rule failures are logged, never propagated.
func (s *Service) evaluateAlerts(ctx context.Context, modelID id.ID) {
	if s.alerts == nil {
		return
	}

	agg, err := s.repo.GetByModelID(ctx, modelID)
	if err != nil {
		logger.Warn(ctx, "alert evaluation skipped", "model_id", modelID, "error", err)
		return
	}

	for _, name := range s.alerts.Evaluate(agg) {
		logger.Warn(ctx, "stock alert triggered",
			"rule", name,
			"model_id", modelID,
			"in_stock", agg.TotalInStock,
			"profit", agg.Profit,
		)
	}
}
