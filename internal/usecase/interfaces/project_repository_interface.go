package interfaces

import (
	"context"

	"nexus_consulting/internal/domain/entities"
)

// IProjectRepository abstracts DynamoDB persistence for Project.
//
// Keyed by request_id (one project per request). ReserveCode claims a
// reference code in a dedicated table via a conditional put and returns
// ErrDuplicateKey when another creator already holds it; that signal drives
// the bounded retry in the orchestrator, not any in-process coordination.

type IProjectRepository interface {
	Create(ctx context.Context, p entities.Project) (entities.Project, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Project, error)
	ReserveCode(ctx context.Context, code string) error
	UpdateStatus(ctx context.Context, requestID string, expected, next entities.ProjectStatus) (entities.Project, error)
}
