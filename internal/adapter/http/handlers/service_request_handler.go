package handlers

import (
	"net/http"

	request "nexus_consulting/internal/adapter/http/dto/request"
	response "nexus_consulting/internal/adapter/http/dto/response"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ServiceRequestHandler handles HTTP requests for service request intake and
// consultant review.

type ServiceRequestHandler struct {
	usecase usecase.IServiceRequestUseCase
}

func NewServiceRequestHandler(uc usecase.IServiceRequestUseCase) *ServiceRequestHandler {
	return &ServiceRequestHandler{usecase: uc}
}

// Create registers a new service request in PENDING_REVIEW.
//
// @Summary  Create service request
// @Tags     service-requests
// @Accept   json
// @Produce  json
// @Param    payload body request.CreateServiceRequestRequest true "intake payload"
// @Success  201 {object} response.ServiceRequestResponse
// @Router   /service-requests [post]
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	var payload request.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	sr, err := h.usecase.Create(c.Request.Context(), payload.Description)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromServiceRequest(sr))
}

// Review applies the consultant accept/reject decision.
//
// @Summary  Review service request
// @Tags     service-requests
// @Accept   json
// @Produce  json
// @Param    id      path string                true "service request id"
// @Param    payload body request.ReviewRequest true "decision payload"
// @Success  200 {object} response.ServiceRequestResponse
// @Router   /service-requests/{id}/review [patch]
func (h *ServiceRequestHandler) Review(c *gin.Context) {
	var payload request.ReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	sr, err := h.usecase.Review(c.Request.Context(), c.Param("id"), payload.Decision, actorFrom(c.GetHeader), payload.Reason)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequest(sr))
}

func (h *ServiceRequestHandler) Get(c *gin.Context) {
	sr, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequest(sr))
}
