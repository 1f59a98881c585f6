package main

import (
	"log"

	_ "github.com/denisceno/clone-magazina/api/swagger" // swagger docs
	"github.com/denisceno/clone-magazina/internal/config"
	"github.com/denisceno/clone-magazina/internal/database"
	"github.com/denisceno/clone-magazina/internal/handler"
	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Magazina API
// @version         1.0
// @description     Warehouse resource and budget ledger: withdrawals, returns, fuel entries, employee budgets.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db, cfg.LockWait)
	depotRepo := repository.NewDepotRepository(db)
	productRepo := repository.NewProductRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	fuelRepo := repository.NewFuelRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	auditTrail := service.NewAuditTrail(auditRepo)
	inventoryService := service.NewInventoryService(depotRepo, productRepo, txManager, auditTrail, wsHub)
	masterDataService := service.NewMasterDataService(employeeRepo, vehicleRepo, budgetRepo, txManager, auditTrail)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, returnRepo, productRepo, employeeRepo, txManager, auditTrail, wsHub)
	fuelService := service.NewFuelService(fuelRepo, vehicleRepo, employeeRepo, txManager, auditTrail, wsHub, cfg.FuelCloseWriteOff)
	budgetService := service.NewBudgetService(budgetRepo, expenseRepo, adjustmentRepo, employeeRepo, txManager, auditTrail, cfg.AllowOverdraft)
	reconciliationService := service.NewReconciliationService(withdrawalService, fuelService, budgetService, txManager, auditTrail)
	reportService := service.NewReportService(db, fuelRepo)

	// Handlers
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	masterDataHandler := handler.NewMasterDataHandler(masterDataService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	fuelHandler := handler.NewFuelHandler(fuelService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditTrail)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
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

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API Routing
	inventoryHandler.RegisterRoutes(router.Group(""))
	masterDataHandler.RegisterRoutes(router.Group(""))
	withdrawalHandler.RegisterRoutes(router.Group(""))
	fuelHandler.RegisterRoutes(router.Group(""))
	budgetHandler.RegisterRoutes(router.Group(""))
	reconciliationHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
