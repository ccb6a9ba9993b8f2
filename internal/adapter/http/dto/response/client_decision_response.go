package response

import "nexus_consulting/internal/usecase"

// ClientDecisionResponse returns the decided offer and, on approval, the
// project (the same one on idempotent repeats).
type ClientDecisionResponse struct {
	Offer   OfferResponse    `json:"offer"`
	Project *ProjectResponse `json:"project,omitempty"`
}

func FromClientDecision(res usecase.ClientDecisionResult) ClientDecisionResponse {
	out := ClientDecisionResponse{Offer: FromOffer(res.Offer)}
	if res.Project != nil {
		p := FromProject(*res.Project)
		out.Project = &p
	}
	return out
}
