package interfaces

import (
	"context"

	"nexus_consulting/internal/domain/entities"
)

// IActivityLedger receives one audit record per committed transition.
// The engine triggers the append; retention and querying live elsewhere.

type IActivityLedger interface {
	Append(ctx context.Context, entry entities.LedgerEntry) error
}
