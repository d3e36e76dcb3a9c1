// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/handlers"
	"github.com/sitewise/siteqa-backend/internal/middleware"
	"github.com/sitewise/siteqa-backend/internal/models"
	"github.com/sitewise/siteqa-backend/internal/services"
	"github.com/sitewise/siteqa-backend/internal/store"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

// Initialize wires the store into services and handlers and lays out the
// HTTP surface. Editing roles are supervisor and above; recording results,
// diaries and dockets also needs inspector; everything read-only is open
// to any authenticated user.
func Initialize(st store.Store, cfg *config.Config) *gin.Engine {
	notificationService := services.NewNotificationService(st, cfg.Email)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(st, cfg.JWT)
	templateService := services.NewTemplateService(st)
	itpService := services.NewITPService(st)
	assignmentService := services.NewAssignmentService(st)
	conformanceService := services.NewConformanceService(st, notificationService)
	progressService := services.NewProgressService(st)
	projectService := services.NewProjectService(st)
	lotService := services.NewLotService(st)
	diaryService := services.NewDiaryService(st)
	docketService := services.NewDocketService(st)

	authHandler := handlers.NewAuthHandler(authService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	itpHandler := handlers.NewITPHandler(itpService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	conformanceHandler := handlers.NewConformanceHandler(conformanceService, progressService)
	projectHandler := handlers.NewProjectHandler(projectService, notificationService)
	lotHandler := handlers.NewLotHandler(lotService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)
	docketHandler := handlers.NewDocketHandler(docketService)
	attachmentHandler := handlers.NewAttachmentHandler(storageService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLog(st))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	editors := middleware.RoleRequired(models.UserRoleAdmin, models.UserRoleSupervisor)
	recorders := middleware.RoleRequired(models.UserRoleAdmin, models.UserRoleSupervisor, models.UserRoleInspector)

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		templates := v1.Group("/templates")
		templates.Use(middleware.AuthRequired())
		{
			templates.GET("", templateHandler.List)
			templates.GET("/:id", templateHandler.Get)
			templates.POST("", middleware.AdminRequired(), templateHandler.Create)
			templates.PUT("/:id", middleware.AdminRequired(), templateHandler.Update)
			templates.DELETE("/:id", middleware.AdminRequired(), templateHandler.Deactivate)
			templates.POST("/:id/items", middleware.AdminRequired(), templateHandler.AddItem)
			templates.PUT("/:id/items/:itemId", middleware.AdminRequired(), templateHandler.UpdateItem)
		}

		projects := v1.Group("/projects")
		projects.Use(middleware.AuthRequired())
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", editors, projectHandler.Create)
			projects.PUT("/:id", editors, projectHandler.Update)
			projects.DELETE("/:id", middleware.AdminRequired(), projectHandler.Delete)
		}

		lots := v1.Group("/lots")
		lots.Use(middleware.AuthRequired())
		{
			lots.GET("", lotHandler.List)
			lots.GET("/:id", lotHandler.Get)
			lots.POST("", editors, lotHandler.Create)
			lots.PUT("/:id", editors, lotHandler.Update)
			lots.DELETE("/:id", middleware.AdminRequired(), lotHandler.Delete)

			lots.GET("/:id/assignments", assignmentHandler.List)
			lots.POST("/:id/assignments", editors, assignmentHandler.Assign)

			lots.GET("/:id/conformance", conformanceHandler.ListRecords)
			lots.GET("/:id/conformance/:itemId", conformanceHandler.GetRecord)
			lots.POST("/:id/conformance", recorders, conformanceHandler.RecordResult)
			lots.GET("/:id/itps/:itpId/progress", conformanceHandler.GetProgress)

			lots.GET("/:id/diaries", diaryHandler.List)
			lots.POST("/:id/diaries", recorders, diaryHandler.Create)

			lots.GET("/:id/dockets", docketHandler.List)
			lots.POST("/:id/dockets", recorders, docketHandler.Create)
		}

		assignments := v1.Group("/assignments")
		assignments.Use(middleware.AuthRequired())
		{
			assignments.GET("/:id", assignmentHandler.Get)
			assignments.DELETE("/:id", editors, assignmentHandler.Remove)
			assignments.PUT("/:id/status", editors, assignmentHandler.UpdateStatus)
		}

		itps := v1.Group("/itps")
		itps.Use(middleware.AuthRequired())
		{
			itps.GET("", itpHandler.List)
			itps.GET("/:id", itpHandler.Get)
			itps.POST("/from-template", editors, itpHandler.CreateFromTemplate)
			itps.PUT("/:id/items/:itemId", recorders, itpHandler.UpdateItem)
		}

		diaries := v1.Group("/diaries")
		diaries.Use(middleware.AuthRequired())
		{
			diaries.GET("/:id", diaryHandler.Get)
			diaries.PUT("/:id", recorders, diaryHandler.Update)
			diaries.DELETE("/:id", editors, diaryHandler.Delete)
		}

		dockets := v1.Group("/dockets")
		dockets.Use(middleware.AuthRequired())
		{
			dockets.GET("/:id", docketHandler.Get)
			dockets.PUT("/:id", recorders, docketHandler.Update)
			dockets.DELETE("/:id", editors, docketHandler.Delete)
		}

		attachments := v1.Group("/attachments")
		attachments.Use(middleware.AuthRequired())
		{
			attachments.POST("", middleware.UploadRateLimit(), recorders, attachmentHandler.Upload)
			attachments.GET("/url", attachmentHandler.PresignedURL)
			attachments.DELETE("", editors, attachmentHandler.Delete)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", projectHandler.ListNotifications)
		}
	}

	return r
}
