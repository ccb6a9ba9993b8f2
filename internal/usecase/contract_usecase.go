package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrContractNotFound      = errors.New("contract not found")
	ErrContractAlreadyExists = errors.New("contract already exists for this request")
	ErrOfferNotApproved      = errors.New("offer is not manager approved")
	ErrDocumentRefRequired   = errors.New("document reference is required")
)

// IContractUseCase covers the internal approval path's contract lifecycle:
// draft, upload (with revert), sign.

type IContractUseCase interface {
	Create(ctx context.Context, actor, requestID string) (entities.Contract, error)
	MarkUploaded(ctx context.Context, actor, requestID, documentRef string) (entities.Contract, error)
	RevertToDraft(ctx context.Context, actor, requestID string) (entities.Contract, error)
	Sign(ctx context.Context, actor, requestID string) (entities.Contract, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Contract, error)
}

type ContractUseCase struct {
	repo      interfaces.IContractRepository
	offerRepo interfaces.IOfferRepository
	ledger    interfaces.IActivityLedger
}

var _ IContractUseCase = (*ContractUseCase)(nil)

func NewContractUseCase(repo interfaces.IContractRepository, offerRepo interfaces.IOfferRepository, ledger interfaces.IActivityLedger) *ContractUseCase {
	return &ContractUseCase{repo: repo, offerRepo: offerRepo, ledger: ledger}
}

// Create drafts the contract once the offer is MANAGER_APPROVED.
func (u *ContractUseCase) Create(ctx context.Context, actor, requestID string) (entities.Contract, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Contract{}, ErrInvalidRequestID
	}

	offer, err := u.offerRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Contract{}, err
	}
	if offer.ID == "" {
		return entities.Contract{}, ErrOfferNotFound
	}
	if offer.Status != entities.OfferStatusManagerApproved {
		return entities.Contract{}, ErrOfferNotApproved
	}

	now := time.Now().UTC()
	c := entities.Contract{
		ID:        uuid.NewString(),
		RequestID: requestID,
		OfferID:   offer.ID,
		Status:    entities.ContractStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateKey) {
			return entities.Contract{}, ErrContractAlreadyExists
		}
		return entities.Contract{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "contract_created", "contract", created.ID, "", string(created.Status), map[string]any{"request_id": requestID, "offer_id": offer.ID})
	return created, nil
}

// MarkUploaded transitions CONTRACT_DRAFT -> CONTRACT_UPLOADED and stores
// the uploaded document reference.
func (u *ContractUseCase) MarkUploaded(ctx context.Context, actor, requestID, documentRef string) (entities.Contract, error) {
	documentRef = strings.TrimSpace(documentRef)
	if documentRef == "" {
		return entities.Contract{}, ErrDocumentRefRequired
	}

	c, err := u.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Contract{}, err
	}

	next := entities.ContractStatusUploaded
	if err := workflow.Check(workflow.DomainContract, string(c.Status), string(next)); err != nil {
		return entities.Contract{}, err
	}

	updated, err := u.repo.UpdateUpload(ctx, c.RequestID, c.Status, next, documentRef)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.Contract{}, ErrConcurrentUpdate
		}
		return entities.Contract{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), "contract_uploaded", "contract", updated.ID, string(c.Status), string(updated.Status), map[string]any{"document_ref": documentRef})
	return updated, nil
}

// RevertToDraft undoes an upload so the document can be replaced.
func (u *ContractUseCase) RevertToDraft(ctx context.Context, actor, requestID string) (entities.Contract, error) {
	return u.transition(ctx, actor, requestID, entities.ContractStatusDraft, "contract_reverted")
}

// Sign finalizes the contract; CONTRACT_SIGNED is terminal.
func (u *ContractUseCase) Sign(ctx context.Context, actor, requestID string) (entities.Contract, error) {
	return u.transition(ctx, actor, requestID, entities.ContractStatusSigned, "contract_signed")
}

func (u *ContractUseCase) transition(ctx context.Context, actor, requestID string, next entities.ContractStatus, action string) (entities.Contract, error) {
	c, err := u.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Contract{}, err
	}

	if err := workflow.Check(workflow.DomainContract, string(c.Status), string(next)); err != nil {
		return entities.Contract{}, err
	}

	updated, err := u.repo.UpdateStatus(ctx, c.RequestID, c.Status, next)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			return entities.Contract{}, ErrConcurrentUpdate
		}
		return entities.Contract{}, err
	}
	appendLedger(ctx, u.ledger, actorOrSystem(actor), action, "contract", updated.ID, string(c.Status), string(updated.Status), nil)
	return updated, nil
}

func (u *ContractUseCase) GetByRequestID(ctx context.Context, requestID string) (entities.Contract, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return entities.Contract{}, ErrInvalidRequestID
	}
	c, err := u.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return entities.Contract{}, err
	}
	if c.ID == "" {
		return entities.Contract{}, ErrContractNotFound
	}
	return c, nil
}
