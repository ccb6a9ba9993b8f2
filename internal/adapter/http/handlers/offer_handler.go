package handlers

import (
	"net/http"

	request "nexus_consulting/internal/adapter/http/dto/request"
	response "nexus_consulting/internal/adapter/http/dto/response"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
)

// OfferHandler handles HTTP requests for offer drafting, submission and the
// manager decision.

type OfferHandler struct {
	usecase usecase.IOfferUseCase
}

func NewOfferHandler(uc usecase.IOfferUseCase) *OfferHandler {
	return &OfferHandler{usecase: uc}
}

// SaveDraft upserts the offer payloads for a request. Totals are recomputed
// server-side; the response flags a stale caller cache.
//
// @Summary  Save offer draft
// @Tags     offers
// @Accept   json
// @Produce  json
// @Param    id      path string                   true "service request id"
// @Param    payload body request.OfferDraftRequest true "offer payloads"
// @Success  200 {object} response.SaveDraftResponse
// @Router   /service-requests/{id}/offer [put]
func (h *OfferHandler) SaveDraft(c *gin.Context) {
	var payload request.OfferDraftRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.SaveDraft(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"), payload.TechnicalSections(), payload.FinancialPayload())
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.SaveDraftResponse{
		Offer:          response.FromOffer(res.Offer),
		TotalsMismatch: res.TotalsMismatch,
	})
}

// Submit moves the offer to SUBMITTED_TO_MANAGER.
func (h *OfferHandler) Submit(c *gin.Context) {
	o, err := h.usecase.Submit(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOffer(o))
}

// ManagerDecision resolves a submitted offer. On approval the response
// carries the plaintext client token, the only place it ever appears.
//
// @Summary  Manager decision on offer
// @Tags     offers
// @Accept   json
// @Produce  json
// @Param    id      path string                         true "offer id"
// @Param    payload body request.ManagerDecisionRequest true "decision payload"
// @Success  200 {object} response.ManagerDecisionResponse
// @Router   /offers/{id}/decision [post]
func (h *OfferHandler) ManagerDecision(c *gin.Context) {
	var payload request.ManagerDecisionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	o, clientToken, err := h.usecase.ManagerDecision(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"), payload.Decision, payload.Comment)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.ManagerDecisionResponse{
		Offer:       response.FromOffer(o),
		ClientToken: clientToken,
	})
}

func (h *OfferHandler) Get(c *gin.Context) {
	o, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOffer(o))
}

func (h *OfferHandler) GetByRequest(c *gin.Context) {
	o, err := h.usecase.GetByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOffer(o))
}
