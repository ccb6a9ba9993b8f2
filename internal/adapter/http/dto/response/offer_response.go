package response

import (
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
)

// OfferResponse never exposes the token hash; only the expiry is visible.
type OfferResponse struct {
	ID             string                      `json:"id"`
	RequestID      string                      `json:"request_id"`
	Status         string                      `json:"status"`
	Technical      []entities.TechnicalSection `json:"technical,omitempty"`
	Financial      pricing.FinancialPayload    `json:"financial"`
	ManagerComment string                      `json:"manager_comment,omitempty"`
	TokenExpiresAt *time.Time                  `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// SaveDraftResponse flags when the caller's totals cache disagreed with the
// server-side recomputation (the recomputed values are what got stored).
type SaveDraftResponse struct {
	Offer          OfferResponse `json:"offer"`
	TotalsMismatch bool          `json:"totals_mismatch,omitempty"`
}

// ManagerDecisionResponse carries the plaintext client token exactly once,
// on approval. It is never persisted or logged.
type ManagerDecisionResponse struct {
	Offer       OfferResponse `json:"offer"`
	ClientToken string        `json:"client_token,omitempty"`
}

func FromOffer(o entities.Offer) OfferResponse {
	res := OfferResponse{
		ID:             o.ID,
		RequestID:      o.RequestID,
		Status:         string(o.Status),
		Technical:      o.Technical,
		Financial:      o.Financial,
		ManagerComment: o.ManagerComment,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if !o.TokenExpiresAt.IsZero() {
		t := o.TokenExpiresAt
		res.TokenExpiresAt = &t
	}
	return res
}
