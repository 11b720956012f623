package handlers

import (
	"database/sql"

	"github.com/alimgiray/staffhub/internal/middleware"
	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer needs
type Services struct {
	DB            *sql.DB
	Auth          *services.AuthService
	Users         *services.UserService
	Skills        *services.SkillService
	Collaborators *services.CollaboratorService
	Projects      *services.ProjectService
	Assignments   *services.AssignmentService
	Alerts        *services.ProjectAlertService
	Statistics    *services.StatisticsService
	Notifications *services.NotificationService
	Export        *services.ExportService
	Jobs          *services.JobService
}

// NewRouter builds the gin engine with every route and its guards
func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.TokenMiddleware(s.Auth))

	authHandler := NewAuthHandler(s.Auth)
	userHandler := NewUserHandler(s.Users)
	skillHandler := NewSkillHandler(s.Skills)
	collaboratorHandler := NewCollaboratorHandler(s.Collaborators, s.Statistics)
	projectHandler := NewProjectHandler(s.Projects, s.Statistics)
	assignmentHandler := NewAssignmentHandler(s.Assignments, s.Notifications)
	alertHandler := NewAlertHandler(s.Alerts)
	dashboardHandler := NewDashboardHandler(s.Statistics)
	notificationHandler := NewNotificationHandler(s.Notifications)
	reportHandler := NewReportHandler(s.Export)
	jobHandler := NewJobHandler(s.Jobs)
	healthHandler := NewHealthHandler(s.DB)
	notFoundHandler := NewNotFoundHandler()

	admin := middleware.RequireRole(models.RoleAdmin)
	editor := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	router.GET("/health", healthHandler.HealthCheck)

	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/check-auth", authHandler.CheckAuth)
		auth.POST("/refresh-token", middleware.AuthRequired(), authHandler.RefreshToken)
		auth.GET("/permissions/:entity", middleware.AuthRequired(), authHandler.Permissions)
		auth.GET("/user-access/:userId", middleware.AuthRequired(), authHandler.UserAccess)
		auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthRequired())

	collaborators := api.Group("/collaborators")
	{
		collaborators.GET("", collaboratorHandler.List)
		collaborators.GET("/all", collaboratorHandler.ListAll)
		collaborators.GET("/active", collaboratorHandler.List)
		collaborators.GET("/inactive", collaboratorHandler.ListInactive)
		collaborators.GET("/on-leave", collaboratorHandler.ListOnLeave)
		collaborators.GET("/search", collaboratorHandler.Search)
		collaborators.GET("/available", collaboratorHandler.Available)
		collaborators.GET("/available/period", collaboratorHandler.AvailableForPeriod)
		collaborators.GET("/skill", collaboratorHandler.BySkill)
		collaborators.GET("/project/:id", collaboratorHandler.ByProject)
		collaborators.GET("/statistics", collaboratorHandler.Statistics)
		collaborators.GET("/status-statistics", collaboratorHandler.StatusStatistics)
		collaborators.GET("/:id", collaboratorHandler.Get)
		collaborators.POST("", editor, collaboratorHandler.Create)
		collaborators.PUT("/deactivate", editor, collaboratorHandler.DeactivateMany)
		collaborators.PUT("/reactivate", editor, collaboratorHandler.ReactivateMany)
		collaborators.PUT("/:id", editor, collaboratorHandler.Update)
		collaborators.PUT("/:id/deactivate", editor, collaboratorHandler.Deactivate)
		collaborators.PUT("/:id/reactivate", editor, collaboratorHandler.Reactivate)
		collaborators.DELETE("/:id", admin, collaboratorHandler.Delete)
	}

	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.List)
		projects.GET("/all", projectHandler.ListAll)
		projects.GET("/active", projectHandler.List)
		projects.GET("/inactive", projectHandler.ListInactive)
		projects.GET("/in-progress", projectHandler.ListInProgress)
		projects.GET("/critical", projectHandler.ListCritical)
		projects.GET("/search", projectHandler.Search)
		projects.GET("/by-skills", projectHandler.BySkills)
		projects.GET("/status/:status", projectHandler.ByStatus)
		projects.GET("/client/:client", projectHandler.ByClient)
		projects.GET("/skill/:skillName", projectHandler.BySkill)
		projects.GET("/collaborator/:id", projectHandler.ByCollaborator)
		projects.GET("/statistics", projectHandler.Statistics)
		projects.GET("/status-statistics", projectHandler.StatusStatistics)
		projects.GET("/:id", projectHandler.Get)
		projects.POST("", editor, projectHandler.Create)
		projects.PUT("/deactivate", editor, projectHandler.DeactivateMany)
		projects.PUT("/reactivate", editor, projectHandler.ReactivateMany)
		projects.PUT("/:id", editor, projectHandler.Update)
		projects.PUT("/:id/deactivate", editor, projectHandler.Deactivate)
		projects.PUT("/:id/reactivate", editor, projectHandler.Reactivate)
		projects.DELETE("/:id", admin, projectHandler.Delete)
	}

	assignments := api.Group("/assignments")
	{
		assignments.GET("", assignmentHandler.List)
		assignments.GET("/active", assignmentHandler.ListActive)
		assignments.GET("/removal-stats", assignmentHandler.RemovalStatistics)
		assignments.GET("/collaborator/:id", assignmentHandler.ByCollaborator)
		assignments.GET("/collaborator/:id/can-remove", assignmentHandler.CanRemove)
		assignments.GET("/project/:id", assignmentHandler.ByProject)
		assignments.GET("/:id", assignmentHandler.Get)
		assignments.POST("", editor, assignmentHandler.Create)
		assignments.PUT("/remove-ending", editor, assignmentHandler.RemoveEnding)
		assignments.PUT("/project/:id/remove-collaborators", editor, assignmentHandler.RemoveFromProject)
		assignments.PUT("/project/:id/remove-all", editor, assignmentHandler.RemoveAllFromProject)
		assignments.PUT("/collaborator/:id/remove-all", editor, assignmentHandler.RemoveCollaboratorEverywhere)
		assignments.PUT("/:id", editor, assignmentHandler.Update)
		assignments.DELETE("/:id", editor, assignmentHandler.Delete)
	}

	skills := api.Group("/skills")
	{
		skills.GET("", skillHandler.List)
		skills.GET("/categories", skillHandler.Categories)
		skills.GET("/category/:category", skillHandler.ByCategory)
		skills.GET("/search", skillHandler.Search)
		skills.GET("/suggest", skillHandler.Suggest)
		skills.GET("/:id", skillHandler.Get)
		skills.POST("", editor, skillHandler.Create)
		skills.PUT("/:id", editor, skillHandler.Update)
		skills.DELETE("/:id", admin, skillHandler.Delete)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", alertHandler.List)
		alerts.GET("/high-priority", alertHandler.HighPriority)
		alerts.GET("/project/:projectId", alertHandler.ByProject)
		alerts.PUT("/:alertId/resolve", editor, alertHandler.Resolve)
		alerts.POST("/check", editor, alertHandler.Check)
	}

	api.GET("/dashboard", dashboardHandler.Dashboard)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread", notificationHandler.Unread)
		notifications.GET("/count", notificationHandler.Count)
		notifications.GET("/recent", notificationHandler.Recent)
		notifications.GET("/type/:type", notificationHandler.ByType)
		notifications.GET("/priority/:priority", notificationHandler.ByPriority)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	users := api.Group("/users")
	{
		users.GET("", admin, userHandler.List)
		users.GET("/me", userHandler.Me)
		users.GET("/email/:email", admin, userHandler.ByEmail)
		users.GET("/:id", userHandler.Get)
		users.POST("", admin, userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.PUT("/:id/role", admin, userHandler.UpdateRole)
		users.DELETE("/:id", admin, userHandler.Delete)
	}

	reports := api.Group("/reports", editor)
	{
		reports.GET("/collaborators.xlsx", reportHandler.Collaborators)
		reports.GET("/projects.xlsx", reportHandler.Projects)
	}

	api.GET("/jobs", admin, jobHandler.Recent)

	router.NoRoute(notFoundHandler.NotFound)
	return router
}
