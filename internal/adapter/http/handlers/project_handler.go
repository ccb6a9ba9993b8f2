package handlers

import (
	"net/http"

	request "nexus_consulting/internal/adapter/http/dto/request"
	response "nexus_consulting/internal/adapter/http/dto/response"
	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles delivery-project creation and status advance.

type ProjectHandler struct {
	usecase usecase.IProjectUseCase
}

func NewProjectHandler(uc usecase.IProjectUseCase) *ProjectHandler {
	return &ProjectHandler{usecase: uc}
}

// Create runs createProjectFromRequest: the configured trigger milestone
// must be reached and no project may exist yet.
//
// @Summary  Create project from request
// @Tags     projects
// @Produce  json
// @Param    id path string true "service request id"
// @Success  201 {object} response.ProjectResponse
// @Router   /service-requests/{id}/project [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	p, err := h.usecase.CreateFromRequest(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromProject(p))
}

// Advance moves the project one step forward.
func (h *ProjectHandler) Advance(c *gin.Context) {
	var payload request.ProjectAdvanceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	p, err := h.usecase.Advance(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"), entities.ProjectStatus(payload.Status))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProject(p))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.usecase.GetByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromProject(p))
}
