package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/uzlearn/center-admin-api/api/swagger"
	"github.com/uzlearn/center-admin-api/internal/composer"
	"github.com/uzlearn/center-admin-api/internal/handler"
	"github.com/uzlearn/center-admin-api/internal/middleware"
	"github.com/uzlearn/center-admin-api/internal/repository"
	"github.com/uzlearn/center-admin-api/internal/service"
	"github.com/uzlearn/center-admin-api/internal/upstream"
	"github.com/uzlearn/center-admin-api/pkg/cache"
	"github.com/uzlearn/center-admin-api/pkg/config"
	"github.com/uzlearn/center-admin-api/pkg/database"
	"github.com/uzlearn/center-admin-api/pkg/jobs"
	"github.com/uzlearn/center-admin-api/pkg/logger"
	corsmiddleware "github.com/uzlearn/center-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uzlearn/center-admin-api/pkg/middleware/requestid"
	"github.com/uzlearn/center-admin-api/pkg/storage"
)

// @title Learning Center Admin API
// @version 0.1.0
// @description Admin gateway for the learning-center public site
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs refresh tokens and the catalog list cache. The gateway
	// runs without it, with caching and token rotation disabled.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Postgres only stores the submission audit trail.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, submission audit disabled", zap.Error(err))
		db = nil
	}

	client := upstream.NewClient(cfg.Upstream, logr)
	store := composer.NewStore(cfg.Editor.SessionTTL, cfg.Editor.SweepInterval, cfg.Editor.MaxSessions)
	defer store.Close()

	authSvc := service.NewAuthService(cacheRepo, nil, logr, cfg.Auth)
	catalogSvc := service.NewCatalogService(client, cacheRepo, cfg.Catalog.CacheTTL, logr)

	var editorSvc *service.EditorService
	if db != nil {
		editorSvc = service.NewEditorService(store, client, repository.NewSubmissionRepository(db), logr)
	} else {
		editorSvc = service.NewEditorService(store, client, nil, logr)
	}

	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		BufferSize: 16,
		MaxRetries: cfg.Exports.WorkerRetries,
		RetryDelay: time.Second,
		Logger:     logr,
	}
	msgCfg := service.MessageConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL}
	var messageSvc *service.MessageService
	if cfg.Exports.Enabled {
		exportStore, storeErr := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if storeErr != nil {
			logr.Warn("export storage unavailable, exports disabled", zap.Error(storeErr))
			messageSvc = service.NewMessageService(client, nil, nil, msgCfg, queueCfg, logr)
		} else {
			signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
			messageSvc = service.NewMessageService(client, exportStore, signer, msgCfg, queueCfg, logr)
		}
	} else {
		messageSvc = service.NewMessageService(client, nil, nil, msgCfg, queueCfg, logr)
	}
	messageSvc.Start(ctx)
	defer messageSvc.Stop()

	if cfg.Exports.Enabled && cfg.Exports.CleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					messageSvc.CleanupExpired()
				}
			}
		}()
	}

	metricsSvc := service.NewMetricsService(func() float64 {
		return float64(editorSvc.Sessions())
	})
	client.SetObserver(metricsSvc)
	catalogSvc.SetMetrics(metricsSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	editorHandler := handler.NewEditorHandler(editorSvc, metricsSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
	api.POST("/auth/refresh", authHandler.Refresh)

	// download links carry their own signed token
	api.GET("/messages/exports/download/:token", messageHandler.DownloadExport)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", authHandler.Logout)

	authed.GET("/teachers", catalogHandler.ListTeachers)
	authed.POST("/teachers", catalogHandler.CreateTeacher)
	authed.GET("/teachers/:id", catalogHandler.GetTeacher)
	authed.PATCH("/teachers/:id", catalogHandler.UpdateTeacher)
	authed.DELETE("/teachers/:id", middleware.SuperAdmin(), catalogHandler.DeleteTeacher)

	authed.GET("/students", catalogHandler.ListStudents)
	authed.POST("/students", catalogHandler.CreateStudent)
	authed.GET("/students/:id", catalogHandler.GetStudent)
	authed.PATCH("/students/:id", catalogHandler.UpdateStudent)
	authed.DELETE("/students/:id", middleware.SuperAdmin(), catalogHandler.DeleteStudent)

	authed.GET("/phones", catalogHandler.ListPhones)
	authed.POST("/phones", catalogHandler.CreatePhone)
	authed.PATCH("/phones/:id", catalogHandler.UpdatePhone)
	authed.DELETE("/phones/:id", middleware.SuperAdmin(), catalogHandler.DeletePhone)

	authed.GET("/socials", catalogHandler.ListSocials)
	authed.POST("/socials", catalogHandler.CreateSocial)
	authed.PATCH("/socials/:id", catalogHandler.UpdateSocial)
	authed.DELETE("/socials/:id", middleware.SuperAdmin(), catalogHandler.DeleteSocial)

	authed.GET("/icons", catalogHandler.ListIcons)
	authed.POST("/icons", catalogHandler.CreateIcon)
	authed.GET("/icons/:id", catalogHandler.GetIcon)
	authed.PATCH("/icons/:id", catalogHandler.UpdateIcon)
	authed.DELETE("/icons/:id", middleware.SuperAdmin(), catalogHandler.DeleteIcon)

	authed.GET("/media", catalogHandler.ListMedia)
	authed.POST("/media", catalogHandler.UploadMedia)
	authed.GET("/media/:id", catalogHandler.GetMedia)
	authed.PATCH("/media/:id", catalogHandler.UpdateMedia)
	authed.DELETE("/media/:id", middleware.SuperAdmin(), catalogHandler.DeleteMedia)

	admins := authed.Group("/admins", middleware.SuperAdmin())
	admins.GET("", catalogHandler.ListAdmins)
	admins.POST("", catalogHandler.CreateAdmin)
	admins.GET("/:id", catalogHandler.GetAdmin)
	admins.PATCH("/:id", catalogHandler.UpdateAdmin)
	admins.PATCH("/change-password", catalogHandler.ChangeAdminPassword)
	admins.DELETE("/:id", catalogHandler.DeleteAdmin)

	authed.GET("/versions", catalogHandler.ListVersions)
	authed.POST("/versions/:id/activate", editorHandler.Activate)
	authed.GET("/versions/submissions", editorHandler.Submissions)

	authed.POST("/editor/sessions", editorHandler.Open)
	authed.GET("/editor/sessions/:id", editorHandler.State)
	authed.DELETE("/editor/sessions/:id", editorHandler.Close)
	authed.POST("/editor/sessions/:id/drag/start", editorHandler.DragStart)
	authed.POST("/editor/sessions/:id/drag/end", editorHandler.DragEnd)
	authed.POST("/editor/sessions/:id/drag/cancel", editorHandler.DragCancel)
	authed.POST("/editor/sessions/:id/media", editorHandler.UploadMedia)
	authed.POST("/editor/sessions/:id/media/duplicate", editorHandler.DuplicateMedia)
	authed.POST("/editor/sessions/:id/media/remove", editorHandler.RemoveMedia)
	authed.PATCH("/editor/sessions/:id/fields", editorHandler.SetFields)
	authed.POST("/editor/sessions/:id/phones/select", editorHandler.SelectPhone)
	authed.POST("/editor/sessions/:id/phones/main", editorHandler.SetMainPhone)
	authed.POST("/editor/sessions/:id/socials/select", editorHandler.SelectSocial)
	authed.POST("/editor/sessions/:id/submit", editorHandler.Submit)

	authed.GET("/messages", messageHandler.List)
	authed.GET("/messages/:id", messageHandler.Get)
	authed.PATCH("/messages/:id/checked", messageHandler.SetChecked)
	authed.DELETE("/messages/:id", middleware.SuperAdmin(), messageHandler.Delete)
	authed.POST("/messages/exports", messageHandler.StartExport)
	authed.GET("/messages/exports/:id", messageHandler.GetExport)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
