package routes

import (
	"nexus_consulting/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathServiceRequests = "/service-requests"
	PathOffers          = "/offers"
	PathPortal          = "/portal"
)

func addPipelineRoutes(rg *gin.RouterGroup, requestHandler *handlers.ServiceRequestHandler, offerHandler *handlers.OfferHandler, contractHandler *handlers.ContractHandler, projectHandler *handlers.ProjectHandler) {
	requests := rg.Group(PathServiceRequests)
	{
		requests.POST("", requestHandler.Create)
		requests.GET("/:id", requestHandler.Get)
		requests.PATCH("/:id/review", requestHandler.Review)

		// Request-scoped dependents (one offer/contract/project per request).
		requests.PUT("/:id/offer", offerHandler.SaveDraft)
		requests.GET("/:id/offer", offerHandler.GetByRequest)
		requests.POST("/:id/contract", contractHandler.Create)
		requests.GET("/:id/contract", contractHandler.Get)
		requests.PATCH("/:id/contract/upload", contractHandler.Upload)
		requests.PATCH("/:id/contract/revert", contractHandler.Revert)
		requests.PATCH("/:id/contract/sign", contractHandler.Sign)
		requests.POST("/:id/project", projectHandler.Create)
		requests.GET("/:id/project", projectHandler.Get)
		requests.PATCH("/:id/project/advance", projectHandler.Advance)
	}

	offers := rg.Group(PathOffers)
	{
		offers.GET("/:id", offerHandler.Get)
		offers.POST("/:id/submit", offerHandler.Submit)
		offers.POST("/:id/decision", offerHandler.ManagerDecision)
	}
}

// addPortalRoutes exposes the only unauthenticated entry point; possession
// of the access token is the credential.
func addPortalRoutes(rg *gin.RouterGroup, portalHandler *handlers.ClientPortalHandler) {
	portal := rg.Group(PathPortal)
	{
		portal.POST("/offer", portalHandler.Decide)
	}
}
