package sales

import (
	"context"
	"fmt"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/tx"
	"shopledger/internal/domain"
	"shopledger/internal/domain/audit"
	"shopledger/internal/domain/ledger"
	"shopledger/pkg/logger"
)

// entityType identifies sale documents in the audit change log.
const entityType = "sale"

// Service provides business operations for sale documents.
// Every mutation runs the item write and the matching ledger apply in the
// same transaction, so the aggregates never diverge from recorded history.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	txManager tx.Manager
	auditor   audit.Auditor // optional
}

// NewService creates a new sale service. auditor may be nil.
func NewService(repo Repository, ledgerSvc *ledger.Service, txManager tx.Manager, auditor audit.Auditor) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledgerSvc,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Create creates a sale document with its items and posts the grouped deltas
// to the ledger: one apply per distinct model, however many items reference it.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	doc.Normalize()

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	for idx := range doc.Items {
		if id.IsNil(doc.Items[idx].ID) {
			doc.Items[idx].ID = id.New()
		}
		doc.Items[idx].SaleID = doc.ID
	}

	deltas := ledger.GroupByModel(ledgerItems(doc.Items), ledger.CreateDelta)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.CreateItems(ctx, doc.Items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}

		if err := s.ledger.ApplyDeltas(ctx, deltas, ledger.KindSale); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, doc.ID, audit.ActionCreate, map[string]any{
		"items":      len(doc.Items),
		"totalPrice": doc.TotalPrice,
	})

	logger.Info(ctx, "sale created",
		"id", doc.ID,
		"items", len(doc.Items),
		"total_price", doc.TotalPrice)

	return nil
}

// Delete soft-deletes a sale document and reverses its ledger effect.
// Item rows are kept: history lives at the item level even for cancelled
// documents.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.DeletionMark {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "sale is already deleted").
			WithDetail("id", docID)
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	deltas := ledger.GroupByModel(ledgerItems(items), ledger.DeleteDelta)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, docID, true); err != nil {
			return fmt.Errorf("mark deleted: %w", err)
		}

		if err := s.ledger.ApplyDeltas(ctx, deltas, ledger.KindSale); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, docID, audit.ActionDelete, map[string]any{
		"items": len(items),
	})

	logger.Info(ctx, "sale deleted", "id", docID, "items", len(items))

	return nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves sales with filtering (headers only).
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

// CreateItem appends one item to an existing sale and posts its delta.
func (s *Service) CreateItem(ctx context.Context, docID id.ID, item *SaleItem) error {
	item.Normalize()

	if err := item.Validate(ctx); err != nil {
		return err
	}

	doc, err := s.modifiableDoc(ctx, docID)
	if err != nil {
		return err
	}

	if id.IsNil(item.ID) {
		item.ID = id.New()
	}
	item.SaleID = docID

	delta := ledger.CreateDelta(item.LedgerItem())

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateItems(ctx, []SaleItem{*item}); err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		if err := s.applyDocDelta(ctx, doc, delta); err != nil {
			return err
		}

		return s.ledger.ApplyDelta(ctx, item.ModelID, delta, ledger.KindSale)
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, docID, audit.ActionUpdate, map[string]any{
		"itemId":   item.ID,
		"modelId":  item.ModelID,
		"quantity": item.Quantity,
	})

	logger.Info(ctx, "sale item created",
		"id", docID,
		"item_id", item.ID,
		"model_id", item.ModelID)

	return nil
}

// UpdateItem overwrites one item and posts the difference between the
// persisted row and its replacement. The old side of the diff is always the
// stored values, never a recomputation.
func (s *Service) UpdateItem(ctx context.Context, item *SaleItem) error {
	item.Normalize()

	if err := item.Validate(ctx); err != nil {
		return err
	}

	old, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return err
	}

	doc, err := s.modifiableDoc(ctx, old.SaleID)
	if err != nil {
		return err
	}
	item.SaleID = old.SaleID
	item.CreatedAt = old.CreatedAt

	if item.ModelID != old.ModelID {
		// Model changed: full reversal on the old model, full create on the new.
		return s.moveItem(ctx, doc, old, item)
	}

	delta := ledger.UpdateDelta(old.LedgerItem(), item.LedgerItem())

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		if err := s.applyDocDelta(ctx, doc, delta); err != nil {
			return err
		}

		return s.ledger.ApplyDelta(ctx, item.ModelID, delta, ledger.KindSale)
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, doc.ID, audit.ActionUpdate, map[string]any{
		"itemId":      item.ID,
		"modelId":     item.ModelID,
		"oldQuantity": old.Quantity,
		"quantity":    item.Quantity,
	})

	logger.Info(ctx, "sale item updated",
		"id", doc.ID,
		"item_id", item.ID,
		"model_id", item.ModelID)

	return nil
}

// DeleteItem removes one item and reverses exactly what it contributed.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	old, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	doc, err := s.modifiableDoc(ctx, old.SaleID)
	if err != nil {
		return err
	}

	delta := ledger.DeleteDelta(old.LedgerItem())

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteItem(ctx, itemID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}

		if err := s.applyDocDelta(ctx, doc, delta); err != nil {
			return err
		}

		return s.ledger.ApplyDelta(ctx, old.ModelID, delta, ledger.KindSale)
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, doc.ID, audit.ActionUpdate, map[string]any{
		"itemId":  itemID,
		"modelId": old.ModelID,
		"removed": true,
	})

	logger.Info(ctx, "sale item deleted",
		"id", doc.ID,
		"item_id", itemID,
		"model_id", old.ModelID)

	return nil
}

// moveItem handles an item update that re-targets another model: the ledger
// sees a full delete on the old model and a full create on the new one.
func (s *Service) moveItem(ctx context.Context, doc *Sale, old, item *SaleItem) error {
	removeDelta := ledger.DeleteDelta(old.LedgerItem())
	createDelta := ledger.CreateDelta(item.LedgerItem())

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		if err := s.applyDocDelta(ctx, doc, removeDelta.Add(createDelta)); err != nil {
			return err
		}

		if err := s.ledger.ApplyDelta(ctx, old.ModelID, removeDelta, ledger.KindSale); err != nil {
			return err
		}

		return s.ledger.ApplyDelta(ctx, item.ModelID, createDelta, ledger.KindSale)
	})
	if err != nil {
		return err
	}

	s.logChange(ctx, doc.ID, audit.ActionUpdate, map[string]any{
		"itemId":     item.ID,
		"oldModelId": old.ModelID,
		"modelId":    item.ModelID,
	})

	logger.Info(ctx, "sale item moved",
		"id", doc.ID,
		"item_id", item.ID,
		"old_model_id", old.ModelID,
		"model_id", item.ModelID)

	return nil
}

// modifiableDoc loads the document header and rejects mutations of deleted
// documents.
func (s *Service) modifiableDoc(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.DeletionMark {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot modify a deleted sale").
			WithDetail("id", docID)
	}
	return doc, nil
}

// applyDocDelta rolls the item-level price change into the document total.
// Runs inside the caller's transaction.
func (s *Service) applyDocDelta(ctx context.Context, doc *Sale, delta ledger.Delta) error {
	doc.TotalPrice = doc.TotalPrice.Add(delta.TotalPrice)
	doc.Touch()
	if err := s.repo.Update(ctx, doc); err != nil {
		return fmt.Errorf("update document total: %w", err)
	}
	return nil
}

// logChange writes the audit entry. Best-effort: failures are logged, never
// propagated.
func (s *Service) logChange(ctx context.Context, docID id.ID, action audit.Action, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.LogChange(ctx, entityType, docID, action, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "entity", entityType, "id", docID, "error", err)
	}
}

func ledgerItems(items []SaleItem) []ledger.LineItem {
	out := make([]ledger.LineItem, len(items))
	for i, item := range items {
		out[i] = item.LedgerItem()
	}
	return out
}
