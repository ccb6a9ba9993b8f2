package entities

import "time"

// ContractStatus represents the signed-agreement artifact lifecycle
// (internal approval path only; the portal path bypasses contracts).
//
// CONTRACT_UPLOADED may revert to CONTRACT_DRAFT on re-upload;
// CONTRACT_SIGNED is terminal.

type ContractStatus string

const (
	ContractStatusDraft    ContractStatus = "CONTRACT_DRAFT"
	ContractStatusUploaded ContractStatus = "CONTRACT_UPLOADED"
	ContractStatusSigned   ContractStatus = "CONTRACT_SIGNED"
)

// Contract belongs to a service request and optionally references the offer
// it was drawn from. File/blob storage is an external concern; only the
// document reference is kept here.
//
// Storage model (DynamoDB):
//   - PK: request_id (at most one contract per request)
type Contract struct {
	ID          string         `json:"id"`
	RequestID   string         `json:"request_id"`
	OfferID     string         `json:"offer_id,omitempty"`
	Status      ContractStatus `json:"status"`
	DocumentRef string         `json:"document_ref,omitempty"`
	SignedAt    time.Time      `json:"signed_at,omitzero"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
