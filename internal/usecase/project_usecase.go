package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/infrastructure/config"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// Bounded retries for reference-code collisions. Collisions are benign; the
// uniqueness constraint lives in the storage layer.
const maxCodeAttempts = 8

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrProjectAlreadyExists    = errors.New("project already exists for this request")
	ErrTriggerNotSatisfied     = errors.New("project creation trigger not satisfied")
	ErrCodeGenerationExhausted = errors.New("project code generation exhausted retries")
)

// IProjectUseCase exposes project creation (trigger-gated) and the strictly
// forward status advance.

type IProjectUseCase interface {
	CreateFromRequest(ctx context.Context, actor, requestID string) (entities.Project, error)
	Advance(ctx context.Context, actor, requestID string, next entities.ProjectStatus) (entities.Project, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Project, error)
}

type ProjectUseCase struct {
	repo         interfaces.IProjectRepository
	requestRepo  interfaces.IServiceRequestRepository
	offerRepo    interfaces.IOfferRepository
	contractRepo interfaces.IContractRepository
	ledger       interfaces.IActivityLedger
	trigger      string
}

var _ IProjectUseCase = (*ProjectUseCase)(nil)

func NewProjectUseCase(repo interfaces.IProjectRepository, requestRepo interfaces.IServiceRequestRepository, offerRepo interfaces.IOfferRepository, contractRepo interfaces.IContractRepository, ledger interfaces.IActivityLedger, trigger string) *ProjectUseCase {
	if trigger == "" {
		trigger = config.TriggerContractSigned
	}
	return &ProjectUseCase{repo: repo, requestRepo: requestRepo, offerRepo: offerRepo, contractRepo: contractRepo, ledger: ledger, trigger: trigger}
}

// CreateFromRequest creates the delivery project once the configured trigger
// milestone (signed contract or manager-approved offer) is reached.
func (u *ProjectUseCase) CreateFromRequest(ctx context.Context, actor, requestID string) (entities.Project, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Project{}, ErrInvalidRequestID
	}

	sr, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return entities.Project{}, err
	}
	if sr.ID == "" {
		return entities.Project{}, ErrRequestNotFound
	}

	existing, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Project{}, err
	}
	if existing.ID != "" {
		return entities.Project{}, ErrProjectAlreadyExists
	}

	satisfied, err := u.triggerSatisfied(ctx, requestID)
	if err != nil {
		return entities.Project{}, err
	}
	if !satisfied {
		return entities.Project{}, ErrTriggerNotSatisfied
	}

	return u.createProject(ctx, actor, requestID)
}

func (u *ProjectUseCase) triggerSatisfied(ctx context.Context, requestID string) (bool, error) {
	switch u.trigger {
	case config.TriggerManagerApproved:
		offer, err := u.offerRepo.GetByRequestID(ctx, requestID)
		if err != nil {
			return false, err
		}
		return offer.ID != "" && offer.Status == entities.OfferStatusManagerApproved, nil
	default: // contract_signed
		c, err := u.contractRepo.GetByRequestID(ctx, requestID)
		if err != nil {
			return false, err
		}
		return c.ID != "" && c.Status == entities.ContractStatusSigned, nil
	}
}

// createProject is the shared creation core: reserve a globally unique code
// (bounded retries on collision), then put the project. The client decision
// gateway reuses this directly; its trigger is the client approval itself.
func (u *ProjectUseCase) createProject(ctx context.Context, actor, requestID string) (entities.Project, error) {
	code := ""
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		candidate := newReference("PRJ")
		err := u.repo.ReserveCode(ctx, candidate)
		if err == nil {
			code = candidate
			break
		}
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			log.Printf("[project][usecase] code collision attempt=%d request_id=%s", attempt, requestID)
			continue
		}
		return entities.Project{}, err
	}
	if code == "" {
		return entities.Project{}, ErrCodeGenerationExhausted
	}

	now := time.Now().UTC()
	p := entities.Project{
		ID:        uuid.NewString(),
		RequestID: requestID,
		Code:      code,
		Status:    entities.ProjectStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			// Raced another creator for the same request.
			return entities.Project{}, ErrProjectAlreadyExists
		}
		return entities.Project{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "project_created", "project", created.ID, "", string(created.Status), map[string]any{"request_id": requestID, "code": code})
	return created, nil
}

// Advance moves the project one step forward (DRAFT -> ACTIVE -> CLOSED ->
// ARCHIVED); anything else is rejected by the guard.
func (u *ProjectUseCase) Advance(ctx context.Context, actor, requestID string, next entities.ProjectStatus) (entities.Project, error) {
	p, err := u.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Project{}, err
	}

	if err := workflow.Check(workflow.DomainProject, string(p.Status), string(next)); err != nil {
		return entities.Project{}, err
	}

	updated, err := u.repo.UpdateStatus(ctx, p.RequestID, p.Status, next)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.Project{}, ErrConcurrentUpdate
		}
		return entities.Project{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "project_advanced", "project", updated.ID, string(p.Status), string(updated.Status), nil)
	return updated, nil
}

func (u *ProjectUseCase) GetByRequestID(ctx context.Context, requestID string) (entities.Project, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Project{}, ErrInvalidRequestID
	}
	p, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Project{}, err
	}
	if p.ID == "" {
		return entities.Project{}, ErrProjectNotFound
	}
	return p, nil
}
