package handlers

import (
	"errors"
	"net/http"

	"nexus_consulting/internal/domain/pricing"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase"
	"nexus_consulting/pkg"
)

var errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)

// mapDomainError translates use case errors into the API error taxonomy:
// 400 validation, 404 not found, 409 invalid transition/conflict,
// 401 unauthorized (deliberately low detail), 500 exhausted retries.
func mapDomainError(err error) *pkg.AppError {
	var transitionErr *workflow.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Status transition not allowed", http.StatusConflict).
			WithDetails(map[string]any{
				"domain": string(transitionErr.Domain),
				"from":   transitionErr.From,
				"to":     transitionErr.To,
			})
	}

	var notReadyErr *usecase.RequestNotReadyError
	if errors.As(err, &notReadyErr) {
		return pkg.NewDomainErrorSimple("REQUEST_NOT_READY", "Service request is not in the required status", http.StatusConflict).
			WithDetails(map[string]any{
				"actual":   string(notReadyErr.Actual),
				"required": string(notReadyErr.Required),
			})
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidRequestID),
		errors.Is(err, usecase.ErrInvalidOfferID),
		errors.Is(err, usecase.ErrEmptyDescription),
		errors.Is(err, usecase.ErrInvalidDecision),
		errors.Is(err, usecase.ErrReasonRequired),
		errors.Is(err, usecase.ErrCommentRequired),
		errors.Is(err, usecase.ErrDocumentRefRequired),
		errors.Is(err, usecase.ErrInvalidNextStatus),
		errors.Is(err, pricing.ErrNegativeQty),
		errors.Is(err, pricing.ErrNegativeBaseCost),
		errors.Is(err, pricing.ErrNegativePercent),
		errors.Is(err, pricing.ErrDiscountOutOfRange),
		errors.Is(err, pricing.ErrNegativeVATRate),
		errors.Is(err, pricing.ErrLineItemShapeUnknown):
		return pkg.NewDomainError("VALIDATION_ERROR", "Invalid input", err, http.StatusBadRequest)

	case errors.Is(err, usecase.ErrRequestNotFound),
		errors.Is(err, usecase.ErrOfferNotFound),
		errors.Is(err, usecase.ErrContractNotFound),
		errors.Is(err, usecase.ErrProjectNotFound):
		return pkg.NewDomainError("NOT_FOUND", "Entity not found", err, http.StatusNotFound)

	case errors.Is(err, usecase.ErrUnauthorized):
		// Never distinguish missing vs mismatched vs expired.
		return pkg.NewDomainErrorSimple("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)

	case errors.Is(err, usecase.ErrConcurrentUpdate),
		errors.Is(err, usecase.ErrOfferAlreadyExists),
		errors.Is(err, usecase.ErrOfferNotEditable),
		errors.Is(err, usecase.ErrOfferNotApproved),
		errors.Is(err, usecase.ErrContractAlreadyExists),
		errors.Is(err, usecase.ErrProjectAlreadyExists),
		errors.Is(err, usecase.ErrTriggerNotSatisfied),
		errors.Is(err, usecase.ErrDecisionConflict):
		return pkg.NewDomainError("CONFLICT", "Operation conflicts with current state", err, http.StatusConflict)

	case errors.Is(err, usecase.ErrCodeGenerationExhausted):
		return pkg.NewDomainError("RETRIES_EXHAUSTED", "Could not allocate a unique project code", err, http.StatusInternalServerError)

	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// actorFrom reads the audit actor from the X-Actor header; authentication is
// an outer concern, the ledger records what it is given.
func actorFrom(header func(string) string) string {
	if a := header("X-Actor"); a != "" {
		return a
	}
	return "system"
}
