package main

import (
	"confhub/core/logger"
	"confhub/core/server"

	_ "confhub/docs" // Swagger docs
)

// @title ConfHub API
// @version 1.0
// @description Backend API for ConfHub - conference talk submission and scheduling
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@confhub.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
