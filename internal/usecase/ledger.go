package usecase

import (
	"context"
	"log"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// appendLedger records a committed transition. The write is best effort: the
// status change has already been committed via CAS, so a ledger failure is
// logged and not propagated.
func appendLedger(ctx context.Context, ledger interfaces.IActivityLedger, actor, action, kind, entityID, from, to string, payload map[string]any) {
	if ledger == nil {
		return
	}
	entry := entities.LedgerEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := ledger.Append(ctx, entry); err != nil {
		log.Printf("[ledger][usecase] append failed action=%s entity=%s/%s err=%v", action, kind, entityID, err)
	}
}
