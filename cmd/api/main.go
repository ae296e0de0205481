package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mensah-labs/shs-timetable-api/api/swagger"
	"github.com/mensah-labs/shs-timetable-api/internal/handler"
	"github.com/mensah-labs/shs-timetable-api/internal/middleware"
	"github.com/mensah-labs/shs-timetable-api/internal/models"
	"github.com/mensah-labs/shs-timetable-api/internal/repository"
	"github.com/mensah-labs/shs-timetable-api/internal/service"
	"github.com/mensah-labs/shs-timetable-api/pkg/cache"
	"github.com/mensah-labs/shs-timetable-api/pkg/config"
	"github.com/mensah-labs/shs-timetable-api/pkg/database"
	"github.com/mensah-labs/shs-timetable-api/pkg/logger"
	corsmiddleware "github.com/mensah-labs/shs-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mensah-labs/shs-timetable-api/pkg/middleware/requestid"
)

// @title SHS Timetable API
// @version 1.0.0
// @description Slot assignment and conflict detection for school weekly timetables
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Timetable.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without grid cache", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Timetable.GridCacheTTL, logr, true)
		}
	}

	periodRepo := repository.NewPeriodRepository(db)
	classRepo := repository.NewClassRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	periodSvc := service.NewPeriodService(periodRepo, nil, logr)
	directorySvc := service.NewDirectoryService(classRepo, subjectRepo, teacherRepo, classroomRepo, logr)
	classSubjectSvc := service.NewClassSubjectService(classSubjectRepo, timetableRepo, cacheSvc, nil, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, classSubjectRepo, periodRepo, cacheSvc, metrics, nil, logr, cfg.Timetable.GridCacheTTL)

	authHandler := handler.NewAuthHandler(authSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	classSubjectHandler := handler.NewClassSubjectHandler(classSubjectSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/periods", periodHandler.List)
	authed.GET("/classes", directoryHandler.Classes)
	authed.GET("/subjects", directoryHandler.Subjects)
	authed.GET("/teachers", directoryHandler.Teachers)
	authed.GET("/classrooms", directoryHandler.Classrooms)

	authed.GET("/classes/:id/timetable", timetableHandler.Grid)
	authed.GET("/classes/:id/subjects", classSubjectHandler.ListByClass)
	authed.GET("/teachers/:id/schedule", timetableHandler.TeacherDay)

	staff := authed.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))

	staff.POST("/timetable/validate", timetableHandler.Validate)
	staff.POST("/timetable/entries", timetableHandler.CreateEntry)
	staff.POST("/timetable/entries/bulk", timetableHandler.BulkCreate)
	staff.PUT("/timetable/entries/:id", timetableHandler.UpdateEntry)
	staff.DELETE("/timetable/entries/:id", timetableHandler.DeleteEntry)
	staff.POST("/timetable/copy", timetableHandler.Copy)
	staff.PUT("/class-subjects/:id/teacher", classSubjectHandler.ReassignTeacher)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/periods", periodHandler.Create)
	admin.PUT("/periods/:id", periodHandler.Update)
	admin.DELETE("/periods/:id", periodHandler.Deactivate)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
