package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
	"nexus_consulting/internal/domain/token"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound      = errors.New("offer not found")
	ErrInvalidOfferID     = errors.New("invalid offer id")
	ErrOfferNotEditable   = errors.New("offer is not editable in its current status")
	ErrOfferAlreadyExists = errors.New("offer already exists for this request")
	ErrCommentRequired    = errors.New("a rejection comment is required")
)

// RequestNotReadyError is the conflict raised when an offer operation needs
// the service request in a specific status and found another.
type RequestNotReadyError struct {
	Actual   entities.ServiceRequestStatus
	Required entities.ServiceRequestStatus
}

func (e *RequestNotReadyError) Error() string {
	return fmt.Sprintf("service request is %s, needs %s", e.Actual, e.Required)
}

// SaveDraftResult carries the persisted offer plus whether the caller's
// totals cache disagreed with the server-side recomputation.
type SaveDraftResult struct {
	Offer          entities.Offer
	TotalsMismatch bool
}

// IOfferUseCase exposes the offer drafting, submission and manager-decision
// operations. ManagerDecision returns the plaintext client token exactly
// once, on approval.

type IOfferUseCase interface {
	SaveDraft(ctx context.Context, actor, requestID string, technical []entities.TechnicalSection, financial pricing.FinancialPayload) (SaveDraftResult, error)
	Submit(ctx context.Context, actor, offerID string) (entities.Offer, error)
	ManagerDecision(ctx context.Context, actor, offerID, decision, comment string) (entities.Offer, string, error)
	GetByID(ctx context.Context, id string) (entities.Offer, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Offer, error)
}

type OfferUseCase struct {
	repo        interfaces.IOfferRepository
	requestRepo interfaces.IServiceRequestRepository
	ledger      interfaces.IActivityLedger

	defaultVATRate float64
	tokenTTL       time.Duration
}

var _ IOfferUseCase = (*OfferUseCase)(nil)

func NewOfferUseCase(repo interfaces.IOfferRepository, requestRepo interfaces.IServiceRequestRepository, ledger interfaces.IActivityLedger, defaultVATRate float64, tokenTTL time.Duration) *OfferUseCase {
	if defaultVATRate <= 0 {
		defaultVATRate = pricing.DefaultVATRate
	}
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &OfferUseCase{repo: repo, requestRepo: requestRepo, ledger: ledger, defaultVATRate: defaultVATRate, tokenTTL: tokenTTL}
}

// SaveDraft upserts the offer payloads. The request must be
// CONSULTANT_ACCEPTED, the offer (if it exists) must be DRAFT or
// MANAGER_REJECTED, and totals are always recomputed from the items.
func (u *OfferUseCase) SaveDraft(ctx context.Context, actor, requestID string, technical []entities.TechnicalSection, financial pricing.FinancialPayload) (SaveDraftResult, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return SaveDraftResult{}, ErrInvalidRequestID
	}

	sr, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return SaveDraftResult{}, err
	}
	if sr.ID == "" {
		return SaveDraftResult{}, ErrRequestNotFound
	}
	if sr.Status != entities.RequestStatusConsultantAccepted {
		return SaveDraftResult{}, &RequestNotReadyError{Actual: sr.Status, Required: entities.RequestStatusConsultantAccepted}
	}

	mismatch, err := pricing.Recompute(&financial, u.defaultVATRate)
	if err != nil {
		return SaveDraftResult{}, err
	}
	if mismatch {
		log.Printf("[offer][usecase] caller totals differ from recomputation request_id=%s; recomputed values win", requestID)
	}

	existing, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return SaveDraftResult{}, err
	}

	if existing.ID == "" {
		now := time.Now().UTC()
		o := entities.Offer{
			ID:        uuid.NewString(),
			RequestID: requestID,
			Status:    entities.OfferStatusDraft,
			Technical: technical,
			Financial: financial,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := u.repo.Create(ctx, o)
		if err != nil {
			if errors.Is(err, interfaces.ErrDuplicateKey) {
				return SaveDraftResult{}, ErrOfferAlreadyExists
			}
			return SaveDraftResult{}, err
		}
		appendLedger(ctx, u.ledger, actorOrSystem(actor), "offer_draft_created", "offer", created.ID, "", string(created.Status), map[string]any{"request_id": requestID, "total": created.Financial.Totals.Total})
		return SaveDraftResult{Offer: created, TotalsMismatch: mismatch}, nil
	}

	if !existing.Editable() {
		return SaveDraftResult{}, ErrOfferNotEditable
	}

	updated, err := u.repo.UpdateDraft(ctx, requestID, existing.Status, technical, financial)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return SaveDraftResult{}, ErrConcurrentUpdate
		}
		return SaveDraftResult{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "offer_draft_saved", "offer", updated.ID, string(existing.Status), string(updated.Status), map[string]any{"request_id": requestID, "total": updated.Financial.Totals.Total})
	return SaveDraftResult{Offer: updated, TotalsMismatch: mismatch}, nil
}

// Submit moves a DRAFT or MANAGER_REJECTED offer to SUBMITTED_TO_MANAGER.
func (u *OfferUseCase) Submit(ctx context.Context, actor, offerID string) (entities.Offer, error) {
	o, err := u.GetByID(ctx, offerID)
	if err != nil {
		return entities.Offer{}, err
	}

	next := entities.OfferStatusSubmittedToManager
	if err := workflow.Check(workflow.DomainOffer, string(o.Status), string(next)); err != nil {
		return entities.Offer{}, err
	}

	updated, err := u.repo.UpdateStatus(ctx, o.RequestID, o.Status, next)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.Offer{}, ErrConcurrentUpdate
		}
		return entities.Offer{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "offer_submitted", "offer", updated.ID, string(o.Status), string(updated.Status), nil)
	return updated, nil
}

// ManagerDecision resolves a SUBMITTED_TO_MANAGER offer. Approval mints a
// fresh single-use client token and stores only its hash + expiry; the
// plaintext is returned to the caller and never logged.
func (u *OfferUseCase) ManagerDecision(ctx context.Context, actor, offerID, decision, comment string) (entities.Offer, string, error) {
	o, err := u.GetByID(ctx, offerID)
	if err != nil {
		return entities.Offer{}, "", err
	}

	var next entities.OfferStatus
	switch decision {
	case DecisionApprove:
		next = entities.OfferStatusManagerApproved
	case DecisionReject:
		next = entities.OfferStatusManagerRejected
		if strings.TrimSpace(comment) == "" {
			return entities.Offer{}, "", ErrCommentRequired
		}
	default:
		return entities.Offer{}, "", ErrInvalidDecision
	}

	if err := workflow.Check(workflow.DomainOffer, string(o.Status), string(next)); err != nil {
		return entities.Offer{}, "", err
	}

	plaintext := ""
	tokenHash := ""
	var expiresAt time.Time
	if next == entities.OfferStatusManagerApproved {
		plaintext, tokenHash, err = token.Mint()
		if err != nil {
			return entities.Offer{}, "", err
		}
		expiresAt = time.Now().UTC().Add(u.tokenTTL)
	}

	updated, err := u.repo.UpdateManagerDecision(ctx, o.RequestID, o.Status, next, strings.TrimSpace(comment), tokenHash, expiresAt)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.Offer{}, "", ErrConcurrentUpdate
		}
		return entities.Offer{}, "", err
	}

	payload := map[string]any{"decision": decision}
	if next == entities.OfferStatusManagerApproved {
		payload["token_expires_at"] = expiresAt.Format(time.RFC3339)
	} else {
		payload["comment"] = comment
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "offer_manager_decision", "offer", updated.ID, string(o.Status), string(updated.Status), payload)
	return updated, plaintext, nil
}

func (u *OfferUseCase) GetByID(ctx context.Context, id string) (entities.Offer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Offer{}, ErrInvalidOfferID
	}
	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Offer{}, err
	}
	if o.ID == "" {
		return entities.Offer{}, ErrOfferNotFound
	}
	return o, nil
}

func (u *OfferUseCase) GetByRequestID(ctx context.Context, requestID string) (entities.Offer, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Offer{}, ErrInvalidRequestID
	}
	o, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Offer{}, err
	}
	if o.ID == "" {
		return entities.Offer{}, ErrOfferNotFound
	}
	return o, nil
}

func actorOrSystem(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "system"
	}
	return actor
}
