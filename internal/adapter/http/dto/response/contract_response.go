package response

import (
	"time"

	"nexus_consulting/internal/domain/entities"
)

type ContractResponse struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id"`
	OfferID     string     `json:"offer_id,omitempty"`
	Status      string     `json:"status"`
	DocumentRef string     `json:"document_ref,omitempty"`
	SignedAt    *time.Time `json:"signed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromContract(c entities.Contract) ContractResponse {
	res := ContractResponse{
		ID:          c.ID,
		RequestID:   c.RequestID,
		OfferID:     c.OfferID,
		Status:      string(c.Status),
		DocumentRef: c.DocumentRef,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if !c.SignedAt.IsZero() {
		t := c.SignedAt
		res.SignedAt = &t
	}
	return res
}
