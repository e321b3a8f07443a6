package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mouna-backend/internal/handler"
	"mouna-backend/internal/lookup"
	"mouna-backend/internal/middleware"
	"mouna-backend/internal/model"
	"mouna-backend/internal/notify"
	"mouna-backend/internal/repository"
	"mouna-backend/internal/service"
	"mouna-backend/internal/ws"
	"mouna-backend/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Category{}, &model.Product{}, &model.SavedProduct{}, &model.AuditLog{})

	// 3. Seed default admin and categories
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	savedRepo := repository.NewSavedProductRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	lookupClient := lookup.NewOpenFoodFactsClient()
	pushSender := notify.NewOneSignalClient()

	productService := service.NewProductService(productRepo, savedRepo, auditRepo, lookupClient, wsHub)
	authService := service.NewAuthService(userRepo, auditRepo)
	userService := service.NewUserService(userRepo)
	dashService := service.NewDashboardService(productRepo)
	expiryService := service.NewExpiryService(productRepo, pushSender)
	backupService := service.NewBackupService(db)

	productHandler := handler.NewProductHandler(productService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	auditHandler := handler.NewAuditHandler(auditRepo)
	expiryHandler := handler.NewExpiryHandler(expiryService)
	backupHandler := handler.NewBackupHandler(backupService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Mouna API v1.0",
		BodyLimit: 50 * 1024 * 1024, // product images arrive as data URIs
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Health Check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Mouna API is running 🚀")
	})

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)
	protected.Get("/lookup/:barcode", productHandler.LookupBarcode)

	// Dashboard
	protected.Get("/dashboard-stats", dashHandler.GetDashboardStats)

	// Categories
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Delete("/categories/:id", categoryHandler.DeleteCategory)

	// Users (admin only)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", adminOnly, userHandler.CreateUser)
	protected.Put("/users/:id", adminOnly, userHandler.UpdateUser)
	protected.Delete("/users/:id", adminOnly, userHandler.DeleteUser)

	// Audit trail
	protected.Get("/audit-logs", auditHandler.GetAuditLogs)

	// Backup / Restore (admin only)
	protected.Get("/backup", adminOnly, backupHandler.Backup)
	protected.Post("/restore", adminOnly, backupHandler.Restore)

	// Expiry scan (triggered by a cron hitting this route)
	protected.Get("/check-expiry", expiryHandler.CheckExpiry)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the default admin user and category list if missing
func seedDefaults(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	if err := categoryRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: failed to seed categories: %v", err)
	}

	if _, err := userRepo.FindByUsername("admin"); err != nil {
		admin := &model.User{
			Username: "admin",
			Name:     "المدير العام",
			Role:     model.RoleAdmin,
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin")
		}
	}
}
