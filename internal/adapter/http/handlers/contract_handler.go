package handlers

import (
	"net/http"

	request "nexus_consulting/internal/adapter/http/dto/request"
	response "nexus_consulting/internal/adapter/http/dto/response"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ContractHandler handles the internal-path contract lifecycle.

type ContractHandler struct {
	usecase usecase.IContractUseCase
}

func NewContractHandler(uc usecase.IContractUseCase) *ContractHandler {
	return &ContractHandler{usecase: uc}
}

// Create drafts the contract for a request with a manager-approved offer.
func (h *ContractHandler) Create(c *gin.Context) {
	contract, err := h.usecase.Create(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromContract(contract))
}

// Upload records the uploaded document and moves to CONTRACT_UPLOADED.
func (h *ContractHandler) Upload(c *gin.Context) {
	var payload request.ContractUploadRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	contract, err := h.usecase.MarkUploaded(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"), payload.DocumentRef)
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromContract(contract))
}

// Revert returns an uploaded contract to draft for re-upload.
func (h *ContractHandler) Revert(c *gin.Context) {
	contract, err := h.usecase.RevertToDraft(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromContract(contract))
}

// Sign finalizes the contract.
func (h *ContractHandler) Sign(c *gin.Context) {
	contract, err := h.usecase.Sign(c.Request.Context(), actorFrom(c.GetHeader), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromContract(contract))
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.usecase.GetByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapDomainError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromContract(contract))
}
