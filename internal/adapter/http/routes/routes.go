package routes

import (
	"context"
	"log"
	"strconv"

	_ "nexus_consulting/docs" // swag-generated swagger spec
	"nexus_consulting/internal/adapter/http/handlers"
	"nexus_consulting/internal/adapter/persistence/repository"
	"nexus_consulting/internal/infrastructure/config"
	"nexus_consulting/internal/infrastructure/database"
	"nexus_consulting/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run wires the engine together and starts the server.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
}

func getRoutes(cfg config.Config) {
	ddb, err := database.NewDynamoDBClient(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}

	requestRepo := repository.NewServiceRequestDynamoRepository(ddb, cfg.RequestsTable)
	offerRepo := repository.NewOfferDynamoRepository(ddb, cfg.OffersTable)
	contractRepo := repository.NewContractDynamoRepository(ddb, cfg.ContractsTable)
	projectRepo := repository.NewProjectDynamoRepository(ddb, cfg.ProjectsTable, cfg.CodesTable)
	ledger := repository.NewActivityLedgerDynamoRepository(ddb, cfg.LedgerTable)

	requestUseCase := usecase.NewServiceRequestUseCase(requestRepo, ledger)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, requestRepo, ledger, cfg.DefaultVATRate, cfg.TokenTTL)
	contractUseCase := usecase.NewContractUseCase(contractRepo, offerRepo, ledger)
	projectUseCase := usecase.NewProjectUseCase(projectRepo, requestRepo, offerRepo, contractRepo, ledger, cfg.ProjectTrigger)
	clientDecisionUseCase := usecase.NewClientDecisionUseCase(offerRepo, requestRepo, projectUseCase, ledger)

	requestHandler := handlers.NewServiceRequestHandler(requestUseCase)
	offerHandler := handlers.NewOfferHandler(offerUseCase)
	contractHandler := handlers.NewContractHandler(contractUseCase)
	projectHandler := handlers.NewProjectHandler(projectUseCase)
	portalHandler := handlers.NewClientPortalHandler(clientDecisionUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPipelineRoutes(v1, requestHandler, offerHandler, contractHandler, projectHandler)
	addPortalRoutes(v1, portalHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
