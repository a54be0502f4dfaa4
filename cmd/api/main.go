package main

import (
	"log"
	"os"
	"strings"

	"inventaris/internal/database"
	"inventaris/internal/handler"
	"inventaris/internal/middleware"
	"inventaris/internal/repository"
	"inventaris/internal/service"
	"inventaris/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Inventaris API
// @version         1.0
// @description     Warehouse inventory API: item catalog, goods receipts, dispatches and item request workflow.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := buildDSN()

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	incomingRepo := repository.NewIncomingItemRepository(db)
	outgoingRepo := repository.NewOutgoingItemRepository(db)
	requestRepo := repository.NewItemRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	ledger := repository.NewStockLedger(db)
	txManager := repository.NewTransactionManager(db)

	strictReversal := envBool("STRICT_REVERSAL", false)

	// Services
	userService := service.NewUserService(userRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo, supplierRepo, auditRepo, txManager)
	referenceService := service.NewReferenceService(categoryRepo, supplierRepo)
	incomingService := service.NewIncomingItemService(incomingRepo, itemRepo, ledger, auditRepo, txManager, wsHub, strictReversal)
	outgoingService := service.NewOutgoingItemService(outgoingRepo, itemRepo, ledger, auditRepo, txManager, wsHub)
	requestService := service.NewItemRequestService(requestRepo, itemRepo, ledger, auditRepo, txManager, wsHub)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	itemHandler := handler.NewItemHandler(itemService)
	referenceHandler := handler.NewReferenceHandler(referenceService)
	incomingHandler := handler.NewIncomingItemHandler(incomingService)
	outgoingHandler := handler.NewOutgoingItemHandler(outgoingService)
	requestHandler := handler.NewItemRequestHandler(requestService)
	auditHandler := handler.NewAuditHandler(auditService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for stock.changed events
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	itemHandler.RegisterRoutes(root)
	referenceHandler.RegisterRoutes(root)
	incomingHandler.RegisterRoutes(root)
	outgoingHandler.RegisterRoutes(root)
	requestHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	dashboardHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildDSN() string {
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "inventaris")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := strings.ToLower(os.Getenv(key))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
}
