package routes

import (
	"log"
	"time"

	"crm-platform-backend/internal/api/handlers"
	"crm-platform-backend/internal/api/middleware"
	"crm-platform-backend/internal/audit"
	"crm-platform-backend/internal/auth"
	"crm-platform-backend/internal/config"
	"crm-platform-backend/internal/guard"
	"crm-platform-backend/internal/repository"
	"crm-platform-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application. The returned
// recorder must be closed on shutdown to drain pending audit records.
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, *audit.Recorder) {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := validator.New()

	// Audit pipeline and guard engine. All tenant-scoped tables are reached
	// through the engine only.
	recorder := audit.NewRecorder(audit.NewGormSink(db), &audit.RecorderOptions{
		QueueSize:     cfg.AuditQueueSize,
		AppendTimeout: 5 * time.Second,
	})
	engine := guard.NewEngine(db, recorder)

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	accountRepo := repository.NewAccountRepository(engine)
	contactRepo := repository.NewContactRepository(engine)
	attachmentRepo := repository.NewAttachmentRepository(engine)

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo, userRepo, membershipRepo, validator)
	accountService := service.NewAccountService(accountRepo, validator)
	contactService := service.NewContactService(contactRepo, validator)
	attachmentService := service.NewAttachmentService(attachmentRepo, validator)

	// Initialize auth
	authConfig := auth.NewAuthConfig(cfg.JWTSecret, cfg.TokenTTLMinutes)
	authService, err := auth.NewAuthService(authConfig, userRepo, membershipRepo)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService, tenantRepo, membershipRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	accountHandler := handlers.NewAccountHandler(accountService)
	contactHandler := handlers.NewContactHandler(contactService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Auth routes
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	// Tenant administration routes require only authentication; they operate
	// on the control plane, not inside a tenant.
	admin := router.Group("/api/v1")
	admin.Use(authMiddleware.RequireAuth())
	{
		tenants := admin.Group("/tenants")
		{
			tenants.POST("", tenantHandler.CreateTenant)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.POST("/:id/members", tenantHandler.AddTenantMember)
			tenants.GET("/:id/members", tenantHandler.GetTenantMembers)
			tenants.DELETE("/:id/members/:userId", tenantHandler.RemoveTenantMember)
		}
	}

	// Data-plane routes additionally require a tenant selection header backed
	// by an active membership.
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	v1.Use(authMiddleware.RequireTenant())
	{
		// Account routes
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.ListAccounts)
			accounts.POST("", accountHandler.CreateAccount)
			accounts.GET("/stats", accountHandler.GetAccountStats)
			accounts.GET("/:id", accountHandler.GetAccount)
			accounts.PUT("/:id", accountHandler.UpdateAccount)
			accounts.PUT("/:id/parent", accountHandler.SetAccountParent)
			accounts.DELETE("/:id", accountHandler.DeleteAccount)
		}

		// Contact routes
		contacts := v1.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		// Attachment routes
		attachments := v1.Group("/attachments")
		{
			attachments.GET("", attachmentHandler.ListAttachments)
			attachments.POST("", attachmentHandler.CreateAttachment)
			attachments.GET("/:id", attachmentHandler.GetAttachment)
			attachments.DELETE("/:id", attachmentHandler.DeleteAttachment)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router, recorder
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
