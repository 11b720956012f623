package app

import (
	"database/sql"
	"time"

	"github.com/alimgiray/staffhub/internal/handlers"
	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/internal/repositories"
	"github.com/alimgiray/staffhub/internal/services"
	"github.com/alimgiray/staffhub/internal/workers"
	"github.com/alimgiray/staffhub/pkg/cache"
	"github.com/alimgiray/staffhub/pkg/config"
	"github.com/gin-gonic/gin"
)

// App holds the wired services of one running instance
type App struct {
	Config   *config.Config
	Services handlers.Services
}

// New wires repositories, caches and services over db
func New(db *sql.DB, cfg *config.Config) *App {
	// Repositories
	skillRepo := repositories.NewSkillRepository(db)
	collaboratorRepo := repositories.NewCollaboratorRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)
	alertRepo := repositories.NewProjectAlertRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	// Caches
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	skillCache := cache.New[string, models.Skill](cfg.Cache.Size, ttl)
	userCache := cache.New[string, models.User](cfg.Cache.Size, ttl)

	// Services
	skillService := services.NewSkillService(skillRepo, skillCache)
	assignmentService := services.NewAssignmentService(db, assignmentRepo, collaboratorRepo, projectRepo)
	alertService := services.NewProjectAlertService(db, alertRepo, projectRepo, assignmentRepo, collaboratorRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	return &App{
		Config: cfg,
		Services: handlers.Services{
			DB:            db,
			Auth:          services.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpirationHours)*time.Hour),
			Users:         services.NewUserService(userRepo, userCache),
			Skills:        skillService,
			Collaborators: services.NewCollaboratorService(db, collaboratorRepo, projectRepo, assignmentRepo, skillService),
			Projects:      services.NewProjectService(db, projectRepo, assignmentRepo, collaboratorRepo, skillService),
			Assignments:   assignmentService,
			Alerts:        alertService,
			Statistics:    services.NewStatisticsService(collaboratorRepo, projectRepo, assignmentRepo, skillRepo),
			Notifications: notificationService,
			Export:        services.NewExportService(collaboratorRepo, projectRepo, assignmentRepo),
			Jobs:          services.NewJobService(jobRepo, alertService, assignmentService, notificationService),
		},
	}
}

// Bootstrap seeds the configured administrator
func (a *App) Bootstrap() error {
	return a.Services.Users.EnsureAdmin(a.Config.Auth.AdminEmail, a.Config.Auth.AdminPassword)
}

// Router builds the HTTP engine
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)
	return handlers.NewRouter(a.Services)
}

// Workers returns a manager for the periodic maintenance jobs
func (a *App) Workers() *workers.WorkerManager {
	return workers.NewWorkerManager(a.Services.Jobs, a.Config.Workers)
}
