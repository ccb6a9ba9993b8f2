package handlers

import (
	"net/http"

	request "nexus_consulting/internal/adapter/http/dto/request"
	response "nexus_consulting/internal/adapter/http/dto/response"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ClientPortalHandler is the single externally reachable entry point,
// authenticated by the opaque bearer token in the token query parameter.

type ClientPortalHandler struct {
	usecase usecase.IClientDecisionUseCase
}

func NewClientPortalHandler(uc usecase.IClientDecisionUseCase) *ClientPortalHandler {
	return &ClientPortalHandler{usecase: uc}
}

// Decide applies the client approve/reject decision, idempotently. The
// token rides as a query parameter and is never logged.
//
// @Summary  Client decision on offer
// @Tags     portal
// @Accept   json
// @Produce  json
// @Param    token   query string                        true "client access token"
// @Param    payload body request.ClientDecisionRequest true "decision payload"
// @Success  200 {object} response.ClientDecisionResponse
// @Router   /portal/offer [post]
func (h *ClientPortalHandler) Decide(c *gin.Context) {
	var payload request.ClientDecisionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.Decide(c.Request.Context(), c.Query("token"), payload.Decision, payload.Name, payload.Comment)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClientDecision(res))
}
