package interfaces

import (
	"context"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
)

// IOfferRepository abstracts DynamoDB persistence for Offer.
//
// The table is keyed by request_id so the "one offer per request" invariant
// holds at the storage layer; Create returns ErrDuplicateKey on a second
// offer. All Update* methods are compare-and-swap on the expected status and
// return ErrStatusConflict when it no longer matches.

type IOfferRepository interface {
	Create(ctx context.Context, o entities.Offer) (entities.Offer, error)
	GetByID(ctx context.Context, id string) (entities.Offer, error)
	GetByRequestID(ctx context.Context, requestID string) (entities.Offer, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (entities.Offer, error)
	UpdateDraft(ctx context.Context, requestID string, expected entities.OfferStatus, technical []entities.TechnicalSection, financial pricing.FinancialPayload) (entities.Offer, error)
	UpdateStatus(ctx context.Context, requestID string, expected, next entities.OfferStatus) (entities.Offer, error)
	UpdateManagerDecision(ctx context.Context, requestID string, expected, next entities.OfferStatus, comment, tokenHash string, tokenExpiresAt time.Time) (entities.Offer, error)
	UpdateClientDecision(ctx context.Context, requestID string, expected, next entities.OfferStatus, clientName, clientComment string) (entities.Offer, error)
}
