package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/federicowoodward/siaade-api/api/swagger"
	"github.com/federicowoodward/siaade-api/internal/handler"
	"github.com/federicowoodward/siaade-api/internal/middleware"
	"github.com/federicowoodward/siaade-api/internal/models"
	"github.com/federicowoodward/siaade-api/internal/repository"
	"github.com/federicowoodward/siaade-api/internal/service"
	"github.com/federicowoodward/siaade-api/pkg/cache"
	"github.com/federicowoodward/siaade-api/pkg/config"
	"github.com/federicowoodward/siaade-api/pkg/database"
	"github.com/federicowoodward/siaade-api/pkg/logger"
	corsmiddleware "github.com/federicowoodward/siaade-api/pkg/middleware/cors"
	reqidmiddleware "github.com/federicowoodward/siaade-api/pkg/middleware/requestid"
)

// @title SIAADE API
// @version 0.1.0
// @description Academic progress and enrollment eligibility engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	// Repositories
	curriculumRepo := repository.NewCurriculumRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	stageRepo := repository.NewStageRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	inscriptionRepo := repository.NewInscriptionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)
	examRepo := repository.NewExamRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.StatusCache.TTL, logr, cfg.StatusCache.Enabled)
	eligibilitySvc := service.NewEligibilityService(curriculumRepo, progressRepo, cfg.Academic.PassingScore, logr)
	statusSvc := service.NewAcademicStatusService(progressRepo, studentRepo, cacheSvc, cfg.Academic.PassingScore, logr)
	stageSvc := service.NewStageService(stageRepo, curriculumRepo, nil, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, stageRepo, studentRepo, commissionRepo,
		curriculumRepo, eligibilitySvc, auditRepo, statusSvc, metricsSvc, cfg.Registration, nil, logr)
	inscriptionSvc := service.NewInscriptionService(inscriptionRepo, studentRepo, commissionRepo, examRepo,
		curriculumRepo, eligibilitySvc, auditRepo, statusSvc, metricsSvc, cfg.Registration, nil, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	exportSvc := service.NewExportService(statusSvc, cfg.Reports, logr, nil, nil)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilitySvc)
	statusHandler := handler.NewAcademicStatusHandler(statusSvc, exportSvc)
	stageHandler := handler.NewStageHandler(stageSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, inscriptionSvc, auditSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary)
	staffOrPreceptor := middleware.RequireRoles(models.RoleAdmin, models.RoleSecretary, models.RolePreceptor)
	staffOrSelf := middleware.RBAC(string(models.RoleAdmin), string(models.RoleSecretary), string(models.RolePreceptor), "SELF")

	protected.GET("/careers/:careerId/eligibility", eligibilityHandler.Check)
	protected.GET("/students/:studentId/academic-status", staffOrSelf, statusHandler.Get)
	protected.GET("/students/:studentId/academic-status/export", staffOrSelf, statusHandler.Export)

	protected.GET("/registration/stages", staffOrPreceptor, stageHandler.List)
	protected.POST("/registration/stages", staff, stageHandler.Create)
	protected.PATCH("/registration/stages/:id", staff, stageHandler.Edit)
	protected.POST("/registration/stages/:id/close", staff, stageHandler.Close)

	protected.POST("/registration/enrollments", registrationHandler.Enroll)
	protected.DELETE("/registration/enrollments/:id", registrationHandler.Unenroll)
	protected.POST("/registration/toggle", registrationHandler.Toggle)
	protected.GET("/registration/audits", staff, registrationHandler.Audits)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
