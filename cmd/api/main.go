package main

import (
	_ "nexus_consulting/docs"
	"nexus_consulting/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Engagement Pipeline API
// @version         1.0
// @description     Sales-to-delivery workflow engine (service requests, offers, contracts, projects) backed by DynamoDB.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
