package router

import (
	"time"

	"rambopet/internal/config"
	"rambopet/internal/handler"
	"rambopet/internal/infra"
	"rambopet/internal/middleware"
	"rambopet/internal/model"
	"rambopet/internal/repository"
	"rambopet/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	storage := infra.NewFileStorage(cfg.UploadStoragePath)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	speciesRepo := repository.NewSpeciesRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	episodeRepo := repository.NewEpisodeRepository(db)
	productRepo := repository.NewProductRepository(db)
	lotRepo := repository.NewLotRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, storage)
	speciesSvc := service.NewSpeciesService(speciesRepo)
	patientSvc := service.NewPatientService(patientRepo, userRepo, speciesRepo, storage)
	apptSvc := service.NewAppointmentService(apptRepo, patientRepo, userRepo)
	clinicalSvc := service.NewClinicalService(episodeRepo, apptRepo, patientRepo, storage)
	productSvc := service.NewProductService(productRepo)
	inventorySvc := service.NewInventoryService(lotRepo, productRepo, movementRepo, episodeRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	speciesH := handler.NewSpeciesHandler(speciesSvc)
	patientsH := handler.NewPatientsHandler(patientSvc)
	apptsH := handler.NewAppointmentsHandler(apptSvc)
	clinicalH := handler.NewClinicalHandler(clinicalSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)

	staff := middleware.RequireRole(model.StaffRoles...)
	clinicians := middleware.RequireRole(model.RoleVet, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/me", authH.Me)
		v1.PUT("/me", authH.UpdateMe)
		v1.POST("/me/password", authH.ChangePassword)
		v1.POST("/me/photo", authH.UploadPhoto)

		// User management — admin only. Guardians self-register through
		// /v1/auth/register instead.
		users := v1.Group("/users", admin)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.GetByID)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
		// Role directories — staff-wide, used by booking and front-desk screens
		v1.GET("/users/vets", staff, usersH.ListVets)
		v1.GET("/users/guardians", staff, usersH.ListGuardians)

		// Catalog — everyone authenticated can read, staff can write
		v1.GET("/species", speciesH.List)
		v1.GET("/breeds", speciesH.ListBreeds)
		catalog := v1.Group("", admin)
		{
			catalog.POST("/species", speciesH.Create)
			catalog.DELETE("/species/:id", speciesH.Deactivate)
			catalog.POST("/breeds", speciesH.CreateBreed)
			catalog.DELETE("/breeds/:id", speciesH.DeactivateBreed)
		}

		// Patients — guardians see their own, staff see all
		v1.GET("/patients", patientsH.List)
		v1.GET("/patients/mine", patientsH.Mine)
		v1.GET("/patients/:id", patientsH.GetByID)
		patients := v1.Group("/patients", staff)
		{
			patients.POST("", patientsH.Create)
			patients.PUT("/:id", patientsH.Update)
			patients.POST("/:id/photo", patientsH.UploadPhoto)
			patients.POST("/:id/deceased", patientsH.MarkDeceased)
			patients.DELETE("/:id", patientsH.Deactivate)
		}

		// Appointments — booking open to staff; guardians read their own
		v1.GET("/appointments", apptsH.List)
		v1.GET("/appointments/mine", apptsH.Mine)
		v1.GET("/appointments/upcoming", apptsH.Upcoming)
		v1.GET("/appointments/schedule", staff, apptsH.Schedule)
		v1.GET("/appointments/:id", apptsH.GetByID)
		appts := v1.Group("/appointments", staff)
		{
			appts.POST("", apptsH.Create)
			appts.PUT("/:id", apptsH.Update)
			appts.POST("/:id/confirm", apptsH.Confirm)
			appts.POST("/:id/start", apptsH.Start)
			appts.POST("/:id/complete", apptsH.Complete)
			appts.POST("/:id/cancel", apptsH.Cancel)
			appts.POST("/:id/no-show", apptsH.MarkNoShow)
			appts.DELETE("/:id", apptsH.Delete) // always 403
		}

		// Clinical records — guardians read their own patients' episodes,
		// only vets and admins write
		v1.GET("/episodes", clinicalH.ListEpisodes)
		v1.GET("/episodes/:id", clinicalH.GetEpisode)
		v1.GET("/attachments/:attachmentId/download", clinicalH.DownloadAttachment)
		episodes := v1.Group("/episodes", clinicians)
		{
			episodes.POST("", clinicalH.CreateEpisode)
			episodes.PUT("/:id", clinicalH.UpdateEpisode)
			episodes.POST("/:id/close", clinicalH.CloseEpisode)
			episodes.POST("/:id/reopen", clinicalH.ReopenEpisode)
			episodes.POST("/:id/vitals", clinicalH.RecordVitals)
			episodes.POST("/:id/attachments", clinicalH.UploadAttachment)
		}
		v1.DELETE("/attachments/:attachmentId", clinicians, clinicalH.DeleteAttachment)

		// Pharmacy catalog — staff read, admin writes
		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.GetByID)
		v1.GET("/products/code/:code", staff, productsH.GetByCode)
		v1.GET("/products/stock-report", staff, productsH.StockReport)
		products := v1.Group("/products", admin)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
		}

		// Inventory — staff operate the stock ledger
		inv := v1.Group("/inventory", staff)
		{
			inv.POST("/lots", inventoryH.CreateLot)
			inv.GET("/lots", inventoryH.ListLots)
			inv.GET("/lots/:id", inventoryH.GetLot)
			inv.DELETE("/lots/:id", middleware.RequireRole(model.RoleAdmin), inventoryH.DeactivateLot)
			inv.POST("/movements", inventoryH.RegisterMovement)
			inv.POST("/movements/in", inventoryH.RegisterInbound)
			inv.POST("/movements/out", inventoryH.RegisterOutbound)
			inv.GET("/movements", inventoryH.ListMovements)
			inv.DELETE("/movements/:id", inventoryH.DeleteMovement) // always 403
			inv.GET("/expiry-report", inventoryH.ExpiryReport)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
