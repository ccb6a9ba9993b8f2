package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrRequestNotFound   = errors.New("service request not found")
	ErrInvalidRequestID  = errors.New("invalid request id")
	ErrEmptyDescription  = errors.New("description is required")
	ErrInvalidDecision   = errors.New("unknown decision")
	ErrReasonRequired    = errors.New("a reject reason is required")
	ErrConcurrentUpdate  = errors.New("entity was updated concurrently")
	ErrInvalidNextStatus = errors.New("invalid next status")
)

const (
	DecisionAccept  = "accept"
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// IServiceRequestUseCase exposes the intake and consultant-review operations.

type IServiceRequestUseCase interface {
	Create(ctx context.Context, description string) (entities.ServiceRequest, error)
	Review(ctx context.Context, id, decision, reviewerID, reason string) (entities.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (entities.ServiceRequest, error)
}

type ServiceRequestUseCase struct {
	repo   interfaces.IServiceRequestRepository
	ledger interfaces.IActivityLedger
}

var _ IServiceRequestUseCase = (*ServiceRequestUseCase)(nil)

func NewServiceRequestUseCase(repo interfaces.IServiceRequestRepository, ledger interfaces.IActivityLedger) *ServiceRequestUseCase {
	return &ServiceRequestUseCase{repo: repo, ledger: ledger}
}

func (u *ServiceRequestUseCase) Create(ctx context.Context, description string) (entities.ServiceRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return entities.ServiceRequest{}, ErrEmptyDescription
	}

	now := time.Now().UTC()
	sr := entities.ServiceRequest{
		ID:          uuid.NewString(),
		Reference:   newReference("SR"),
		Description: description,
		Status:      entities.RequestStatusPendingReview,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := u.repo.Create(ctx, sr)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	appendLedger(ctx, u.ledger, "system", "service_request_created", "serviceRequest", created.ID, "", string(created.Status), map[string]any{"reference": created.Reference})
	return created, nil
}

// Review applies the consultant decision. Reject requires a non-empty
// reason; both directions are guard-checked and written with a CAS on the
// PENDING_REVIEW status.
func (u *ServiceRequestUseCase) Review(ctx context.Context, id, decision, reviewerID, reason string) (entities.ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ServiceRequest{}, ErrInvalidRequestID
	}

	var next entities.ServiceRequestStatus
	switch decision {
	case DecisionAccept:
		next = entities.RequestStatusConsultantAccepted
	case DecisionReject:
		next = entities.RequestStatusConsultantRejected
		if strings.TrimSpace(reason) == "" {
			return entities.ServiceRequest{}, ErrReasonRequired
		}
	default:
		return entities.ServiceRequest{}, ErrInvalidDecision
	}

	sr, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if sr.ID == "" {
		return entities.ServiceRequest{}, ErrRequestNotFound
	}

	if err := workflow.Check(workflow.DomainServiceRequest, string(sr.Status), string(next)); err != nil {
		return entities.ServiceRequest{}, err
	}

	updated, err := u.repo.UpdateReview(ctx, id, sr.Status, next, strings.TrimSpace(reviewerID), strings.TrimSpace(reason))
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.ServiceRequest{}, ErrConcurrentUpdate
		}
		return entities.ServiceRequest{}, err
	}

	actor := strings.TrimSpace(reviewerID)
	if actor == "" {
		actor = "system"
	}
	appendLedger(ctx, u.ledger, actor, "service_request_reviewed", "serviceRequest", updated.ID, string(sr.Status), string(updated.Status), map[string]any{"decision": decision, "reason": reason})
	return updated, nil
}

func (u *ServiceRequestUseCase) GetByID(ctx context.Context, id string) (entities.ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ServiceRequest{}, ErrInvalidRequestID
	}
	sr, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if sr.ID == "" {
		return entities.ServiceRequest{}, ErrRequestNotFound
	}
	return sr, nil
}

// newReference builds a human-facing code like SR-2026-1a2b3c4d.
func newReference(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UTC().Year(), uuid.NewString()[:8])
}
