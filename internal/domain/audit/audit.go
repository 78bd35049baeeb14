// Package audit defines the change-log contract for document mutations.
// The ledger itself carries no history; history lives at the document level.
package audit

import (
	"context"

	"shopledger/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Auditor records document change entries.
// Implementations live in infrastructure; logging is best-effort and must
// never fail the business operation.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}
