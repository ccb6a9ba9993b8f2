package interfaces

import (
	"context"

	"nexus_consulting/internal/domain/entities"
)

// IContractRepository abstracts DynamoDB persistence for Contract.
//
// Keyed by request_id (one contract per request, ErrDuplicateKey on a
// second). UpdateStatus/UpdateUpload are compare-and-swap on status.

type IContractRepository interface {
	Create(ctx context.Context, c entities.Contract) (entities.Contract, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Contract, error)
	UpdateUpload(ctx context.Context, requestID string, expected, next entities.ContractStatus, documentRef string) (entities.Contract, error)
	UpdateStatus(ctx context.Context, requestID string, expected, next entities.ContractStatus) (entities.Contract, error)
}
