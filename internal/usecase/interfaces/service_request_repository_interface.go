package interfaces

import (
	"context"

	"nexus_consulting/internal/domain/entities"
)

// IServiceRequestRepository abstracts DynamoDB persistence for ServiceRequest.
//
// Status writes are conditional on the expected prior status and return
// ErrStatusConflict when another writer advanced the request first.
// A zero-value entity with empty ID means "not found".

type IServiceRequestRepository interface {
	Create(ctx context.Context, sr entities.ServiceRequest) (entities.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (entities.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id string, expected, next entities.ServiceRequestStatus) (entities.ServiceRequest, error)
	UpdateReview(ctx context.Context, id string, expected, next entities.ServiceRequestStatus, reviewerID, reason string) (entities.ServiceRequest, error)
}
