package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/token"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase/interfaces"
)

var (
	// ErrUnauthorized covers every token failure (missing, unknown,
	// expired). Deliberately a single low-detail error so the endpoint
	// leaks nothing about which check failed.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrDecisionConflict means the opposite decision was already taken;
	// decisions are one-shot through this gateway.
	ErrDecisionConflict = errors.New("a conflicting client decision was already recorded")
)

const clientActor = "client"

// ClientDecisionResult is what the portal endpoint returns: the offer after
// the decision and, on approval, the project (existing one on idempotent
// repeats).
type ClientDecisionResult struct {
	Offer   entities.Offer
	Project *entities.Project
}

// IClientDecisionUseCase is the token-authenticated external entry point.

type IClientDecisionUseCase interface {
	Decide(ctx context.Context, presentedToken, decision, name, comment string) (ClientDecisionResult, error)
}

// ClientDecisionUseCase drives the portal path: offer CLIENT_APPROVED /
// CLIENT_REJECTED, the mirrored service-request transitions, and project
// creation through the orchestrator's shared core.
type ClientDecisionUseCase struct {
	offerRepo   interfaces.IOfferRepository
	requestRepo interfaces.IServiceRequestRepository
	projects    *ProjectUseCase
	ledger      interfaces.IActivityLedger

	now func() time.Time
}

var _ IClientDecisionUseCase = (*ClientDecisionUseCase)(nil)

func NewClientDecisionUseCase(offerRepo interfaces.IOfferRepository, requestRepo interfaces.IServiceRequestRepository, projects *ProjectUseCase, ledger interfaces.IActivityLedger) *ClientDecisionUseCase {
	return &ClientDecisionUseCase{
		offerRepo:   offerRepo,
		requestRepo: requestRepo,
		projects:    projects,
		ledger:      ledger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Decide authenticates the bearer token and applies the client decision,
// idempotently. Repeat approve/reject calls return the current state without
// re-running side effects; cross decisions are conflicts.
func (u *ClientDecisionUseCase) Decide(ctx context.Context, presentedToken, decision, name, comment string) (ClientDecisionResult, error) {
	presentedToken = strings.TrimSpace(presentedToken)
	if presentedToken == "" {
		return ClientDecisionResult{}, ErrUnauthorized
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return ClientDecisionResult{}, ErrInvalidDecision
	}

	offer, err := u.offerRepo.GetByTokenHash(ctx, token.Hash(presentedToken))
	if err != nil {
		return ClientDecisionResult{}, err
	}
	if offer.ID == "" || !token.Matches(presentedToken, offer.TokenHash) {
		return ClientDecisionResult{}, ErrUnauthorized
	}
	if token.Expired(offer.TokenExpiresAt, u.now()) {
		return ClientDecisionResult{}, ErrUnauthorized
	}

	switch offer.Status {
	case entities.OfferStatusClientApproved:
		return u.repeatAfterApproval(ctx, offer, decision)
	case entities.OfferStatusClientRejected:
		if decision == DecisionApprove {
			return ClientDecisionResult{}, ErrDecisionConflict
		}
		return ClientDecisionResult{Offer: offer}, nil
	case entities.OfferStatusManagerApproved:
		// Decidable; fall through.
	default:
		return ClientDecisionResult{}, ErrUnauthorized
	}

	if decision == DecisionReject {
		return u.reject(ctx, offer, name, comment)
	}
	return u.approve(ctx, offer, name, comment)
}

// repeatAfterApproval serves the idempotent approve repeat (same project,
// no new side effects) and the reject-after-approve conflict.
func (u *ClientDecisionUseCase) repeatAfterApproval(ctx context.Context, offer entities.Offer, decision string) (ClientDecisionResult, error) {
	if decision == DecisionReject {
		return ClientDecisionResult{}, ErrDecisionConflict
	}
	p, err := u.projects.repo.GetByRequestID(ctx, offer.RequestID)
	if err != nil {
		return ClientDecisionResult{}, err
	}
	res := ClientDecisionResult{Offer: offer}
	if p.ID != "" {
		res.Project = &p
	}
	return res, nil
}

func (u *ClientDecisionUseCase) reject(ctx context.Context, offer entities.Offer, name, comment string) (ClientDecisionResult, error) {
	if strings.TrimSpace(comment) == "" {
		return ClientDecisionResult{}, ErrCommentRequired
	}

	next := entities.OfferStatusClientRejected
	if err := workflow.Check(workflow.DomainOffer, string(offer.Status), string(next)); err != nil {
		return ClientDecisionResult{}, err
	}

	updated, err := u.offerRepo.UpdateClientDecision(ctx, offer.RequestID, offer.Status, next, strings.TrimSpace(name), strings.TrimSpace(comment))
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return u.resolveRace(ctx, offer.RequestID, DecisionReject)
		}
		return ClientDecisionResult{}, err
	}
	appendLedger(ctx, u.ledger, clientActor, "client_rejected_offer", "offer", updated.ID, string(offer.Status), string(updated.Status), map[string]any{"comment": comment})

	u.advanceRequest(ctx, offer.RequestID, entities.RequestStatusConsultantAccepted, entities.RequestStatusClientRejected, "client_rejected_request", map[string]any{"comment": comment})
	return ClientDecisionResult{Offer: updated}, nil
}

func (u *ClientDecisionUseCase) approve(ctx context.Context, offer entities.Offer, name, comment string) (ClientDecisionResult, error) {
	next := entities.OfferStatusClientApproved
	if err := workflow.Check(workflow.DomainOffer, string(offer.Status), string(next)); err != nil {
		return ClientDecisionResult{}, err
	}

	updated, err := u.offerRepo.UpdateClientDecision(ctx, offer.RequestID, offer.Status, next, strings.TrimSpace(name), strings.TrimSpace(comment))
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return u.resolveRace(ctx, offer.RequestID, DecisionApprove)
		}
		return ClientDecisionResult{}, err
	}
	appendLedger(ctx, u.ledger, clientActor, "client_approved_offer", "offer", updated.ID, string(offer.Status), string(updated.Status), map[string]any{"name": name})

	// Two-step request transition, both recorded.
	u.advanceRequest(ctx, offer.RequestID, entities.RequestStatusConsultantAccepted, entities.RequestStatusClientApproved, "client_approved_request", nil)

	p, err := u.projects.createProject(ctx, clientActor, offer.RequestID)
	if err != nil {
		if errors.Is(err, ErrProjectAlreadyExists) {
			existing, getErr := u.projects.repo.GetByRequestID(ctx, offer.RequestID)
			if getErr != nil {
				return ClientDecisionResult{}, getErr
			}
			p = existing
		} else {
			return ClientDecisionResult{}, err
		}
	}

	u.advanceRequest(ctx, offer.RequestID, entities.RequestStatusClientApproved, entities.RequestStatusProjectCreated, "request_project_created", map[string]any{"project_code": p.Code})
	return ClientDecisionResult{Offer: updated, Project: &p}, nil
}

// resolveRace re-reads the offer after a lost CAS. A concurrent writer that
// landed on the same decision makes this call an idempotent repeat; the
// opposite decision is a conflict.
func (u *ClientDecisionUseCase) resolveRace(ctx context.Context, requestID, decision string) (ClientDecisionResult, error) {
	offer, err := u.offerRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return ClientDecisionResult{}, err
	}
	switch offer.Status {
	case entities.OfferStatusClientApproved:
		return u.repeatAfterApproval(ctx, offer, decision)
	case entities.OfferStatusClientRejected:
		if decision == DecisionApprove {
			return ClientDecisionResult{}, ErrDecisionConflict
		}
		return ClientDecisionResult{Offer: offer}, nil
	default:
		return ClientDecisionResult{}, ErrConcurrentUpdate
	}
}

// advanceRequest performs one CAS step on the service request. The offer is
// the authoritative record for the decision itself, so a lost race here is
// logged and not surfaced.
func (u *ClientDecisionUseCase) advanceRequest(ctx context.Context, requestID string, expected, nextStatus entities.ServiceRequestStatus, action string, payload map[string]any) {
	if err := workflow.Check(workflow.DomainServiceRequest, string(expected), string(nextStatus)); err != nil {
		log.Printf("[portal][usecase] request transition rejected request_id=%s err=%v", requestID, err)
		return
	}
	updated, err := u.requestRepo.UpdateStatus(ctx, requestID, expected, nextStatus)
	if err != nil {
		log.Printf("[portal][usecase] request transition failed request_id=%s %s->%s err=%v", requestID, expected, nextStatus, err)
		return
	}
	appendLedger(ctx, u.ledger, clientActor, action, "serviceRequest", updated.ID, string(expected), string(nextStatus), payload)
}
