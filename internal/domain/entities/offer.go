package entities

import (
	"time"

	"nexus_consulting/internal/domain/pricing"
)

// OfferStatus represents the lifecycle of an offer (quote).
//
// Forward-only except the MANAGER_REJECTED -> SUBMITTED_TO_MANAGER
// resubmission loop. The CLIENT_* statuses belong to the portal path.

type OfferStatus string

const (
	OfferStatusDraft              OfferStatus = "DRAFT"
	OfferStatusSubmittedToManager OfferStatus = "SUBMITTED_TO_MANAGER"
	OfferStatusManagerApproved    OfferStatus = "MANAGER_APPROVED"
	OfferStatusManagerRejected    OfferStatus = "MANAGER_REJECTED"
	OfferStatusClientApproved     OfferStatus = "CLIENT_APPROVED"
	OfferStatusClientRejected     OfferStatus = "CLIENT_REJECTED"
)

// TechnicalSection is one free-form block of the offer's technical proposal.
type TechnicalSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Offer is the technical + financial proposal prepared against a service
// request.
//
// Storage model (DynamoDB):
//   - PK: request_id (guarantees at most one offer per request)
//   - GSI1 (token_hash-index): token_hash
//
// Token handling: only the SHA-256 hash of the client access token is
// stored, together with its expiry. The plaintext token exists exactly once,
// in the manager-approval response.
type Offer struct {
	ID             string                   `json:"id"`
	RequestID      string                   `json:"request_id"`
	Status         OfferStatus              `json:"status"`
	Technical      []TechnicalSection       `json:"technical,omitempty"`
	Financial      pricing.FinancialPayload `json:"financial"`
	ManagerComment string                   `json:"manager_comment,omitempty"`
	ClientName     string                   `json:"client_name,omitempty"`
	ClientComment  string                   `json:"client_comment,omitempty"`
	TokenHash      string                   `json:"-"`
	TokenExpiresAt time.Time                `json:"token_expires_at,omitzero"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// Editable reports whether the offer payloads may still be modified.
func (o Offer) Editable() bool {
	return o.Status == OfferStatusDraft || o.Status == OfferStatusManagerRejected
}
