package workflow

import (
	"fmt"

	"nexus_consulting/internal/domain/entities"
)

// Domain identifies which allowed-transition table applies.

type Domain string

const (
	DomainServiceRequest Domain = "serviceRequest"
	DomainOffer          Domain = "offer"
	DomainContract       Domain = "contract"
	DomainProject        Domain = "project"
)

// Allowed transitions per domain. Built once, read-only afterwards; every
// component asks CanTransition instead of re-deriving rules.
//
// The CLIENT_* moves on serviceRequest/offer are reachable only through the
// client portal, but they are still ordinary table entries here.
var transitions = map[Domain]map[string]map[string]bool{
	DomainServiceRequest: {
		string(entities.RequestStatusPendingReview): {
			string(entities.RequestStatusConsultantAccepted): true,
			string(entities.RequestStatusConsultantRejected): true,
		},
		string(entities.RequestStatusConsultantAccepted): {
			string(entities.RequestStatusClientApproved): true,
			string(entities.RequestStatusClientRejected): true,
		},
		string(entities.RequestStatusClientApproved): {
			string(entities.RequestStatusProjectCreated): true,
		},
	},
	DomainOffer: {
		string(entities.OfferStatusDraft): {
			string(entities.OfferStatusSubmittedToManager): true,
		},
		string(entities.OfferStatusSubmittedToManager): {
			string(entities.OfferStatusManagerApproved): true,
			string(entities.OfferStatusManagerRejected): true,
		},
		string(entities.OfferStatusManagerRejected): {
			string(entities.OfferStatusSubmittedToManager): true,
		},
		string(entities.OfferStatusManagerApproved): {
			string(entities.OfferStatusClientApproved): true,
			string(entities.OfferStatusClientRejected): true,
		},
	},
	DomainContract: {
		string(entities.ContractStatusDraft): {
			string(entities.ContractStatusUploaded): true,
		},
		string(entities.ContractStatusUploaded): {
			string(entities.ContractStatusSigned): true,
			string(entities.ContractStatusDraft):  true,
		},
	},
	DomainProject: {
		string(entities.ProjectStatusDraft): {
			string(entities.ProjectStatusActive): true,
		},
		string(entities.ProjectStatusActive): {
			string(entities.ProjectStatusClosed): true,
		},
		string(entities.ProjectStatusClosed): {
			string(entities.ProjectStatusArchived): true,
		},
	},
}

// CanTransition is a pure lookup. Unknown domains and unknown statuses fail
// closed (false); it never panics.
func CanTransition(domain Domain, from, to string) bool {
	table, ok := transitions[domain]
	if !ok {
		return false
	}
	next, ok := table[from]
	if !ok {
		return false
	}
	return next[to]
}

// InvalidTransitionError reports a guard rejection with enough context for a
// 409 payload.
type InvalidTransitionError struct {
	Domain Domain
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s", e.Domain, e.From, e.To)
}

// Check returns an InvalidTransitionError when the move is not allowed.
func Check(domain Domain, from, to string) error {
	if !CanTransition(domain, from, to) {
		return &InvalidTransitionError{Domain: domain, From: from, To: to}
	}
	return nil
}
