package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"farmertwin/config"
	"farmertwin/handler"
	"farmertwin/logging"
	"farmertwin/middleware"
	"farmertwin/repository"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// multipart framing on top of the file itself
const uploadOverhead = 1 << 20

// app holds the wired components the router needs.
type app struct {
	cfg         *config.Config
	log         logging.Logger
	users       *usecase.UserService
	assistant   *usecase.AssistantService
	locator     *usecase.FacilityLocator
	broadcaster *usecase.Broadcaster
	storage     services.ProfileStorage
	// uploadDir is set when profile images are stored on local disk and
	// must be served by this process.
	uploadDir string
	aiLimiter *middleware.IPRateLimiter
}

// buildApp connects every component. Optional integrations that are not
// configured, or fail to connect, are replaced by their degraded mode.
func buildApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*app, func(), error) {
	repo, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	logger.Info(ctx, "credential store ready", "driver", cfg.Database.Driver)

	var blacklist services.TokenBlacklist = services.NewMemoryTokenBlacklist()
	if cfg.Auth.RedisURL != "" {
		redisBlacklist, err := services.NewTokenBlacklist(ctx, cfg.Auth.RedisURL)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, revocations kept in memory", "error", err)
		} else {
			blacklist = redisBlacklist
		}
	}
	tokens := services.NewTokenService(cfg.Auth.SecretKey, cfg.Auth.Issuer,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, blacklist)

	var ai services.Completer
	if cfg.AI.APIKey != "" {
		ai = services.NewOpenAIClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.HTTPClientTimeout)
	} else {
		logger.Warn(ctx, "OPENAI_API_KEY not set, assistant runs offline")
	}

	var router services.Router
	if cfg.Geo.ORSAPIKey != "" {
		router = services.NewORSRouter(cfg.Geo.ORSBaseURL, cfg.Geo.ORSAPIKey, cfg.HTTPClientTimeout)
	}

	var sender services.PushSender
	if cfg.Push.VAPIDPrivateKey != "" {
		sender = services.NewVAPIDSender(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey,
			cfg.Push.Subject, cfg.HTTPClientTimeout)
	}

	var publisher services.AlertPublisher
	if cfg.Push.NATSURL != "" {
		natsPublisher, err := services.NewNATSPublisher(cfg.Push.NATSURL, cfg.Push.NATSSubject)
		if err != nil {
			logger.Warn(ctx, "NATS unavailable, alerts not mirrored", "error", err)
		} else {
			publisher = natsPublisher
		}
	}

	a := &app{
		cfg:       cfg,
		log:       logger,
		users:     usecase.NewUserService(repo, tokens, logger),
		assistant: usecase.NewAssistantService(ai, cfg.AI.Model, logger),
		locator: usecase.NewFacilityLocator(
			services.NewNominatimGeocoder(cfg.Geo.NominatimURL, cfg.HTTPClientTimeout),
			services.NewOverpassClient(cfg.Geo.OverpassURL, cfg.HTTPClientTimeout),
			router,
			logger,
		),
		broadcaster: usecase.NewBroadcaster(logger, usecase.NewPushRegistry(), sender, publisher),
		aiLimiter:   middleware.NewIPRateLimiter(cfg.AI.RateLimit, cfg.AI.RateBurst),
	}

	if cfg.Storage.S3Bucket != "" {
		a.storage, err = services.NewS3Storage(ctx, services.S3Options{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.S3PublicURL,
		})
	} else {
		var local *services.LocalStorage
		local, err = services.NewLocalStorage(cfg.Storage.UploadDir)
		if err == nil {
			a.storage = local
			a.uploadDir = local.Dir()
		}
	}
	if err != nil {
		a.broadcaster.Close()
		_ = blacklist.Close()
		_ = repo.Close(ctx)
		return nil, nil, err
	}

	cleanup := func() {
		a.broadcaster.Close()
		if err := blacklist.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close revocation store", "error", err)
		}
		if err := repo.Close(context.Background()); err != nil {
			logger.Warn(context.Background(), "failed to close credential store", "error", err)
		}
	}
	return a, cleanup, nil
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.log))
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestLogger(a.log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if a.uploadDir != "" {
		uploads := router.Group(services.LocalUploadPrefix)
		uploads.Use(middleware.CacheControlMiddleware(24 * time.Hour))
		uploads.Static("/", a.uploadDir)
	}

	requireAuth := middleware.AuthMiddleware(a.users)
	uploadLimit := middleware.RequestSizeLimiter(a.cfg.Storage.MaxUploadBytes + uploadOverhead)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, a.users)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, a.users)
			})
			auth.POST("/refresh", func(c *gin.Context) {
				handler.RefreshHandler(c, a.users)
			})
			auth.GET("/me", requireAuth, handler.MeHandler)
			auth.POST("/logout", requireAuth, func(c *gin.Context) {
				handler.LogoutHandler(c, a.users)
			})
		}

		api.POST("/user/upload-profile", requireAuth, uploadLimit, func(c *gin.Context) {
			handler.UploadProfileHandler(c, a.users, a.storage)
		})

		// Assistant endpoints call a paid API and are rate limited per IP.
		twin := api.Group("", middleware.RateLimit(a.aiLimiter))
		{
			twin.POST("/ask-twin", func(c *gin.Context) {
				handler.AskTwinHandler(c, a.assistant)
			})
			twin.POST("/analyze-emotion", func(c *gin.Context) {
				handler.AnalyzeEmotionHandler(c, a.assistant)
			})
			twin.POST("/what-if-view", func(c *gin.Context) {
				handler.WhatIfHandler(c, a.assistant)
			})
			twin.POST("/analyze-crop-image", uploadLimit, func(c *gin.Context) {
				handler.CropImageHandler(c, a.assistant, a.cfg.Storage.MaxUploadBytes)
			})
		}

		coldStorage := api.Group("/cold-storage")
		{
			coldStorage.POST("/search", func(c *gin.Context) {
				handler.SearchColdStorageHandler(c, a.locator)
			})
			coldStorage.POST("/route", func(c *gin.Context) {
				handler.RouteHandler(c, a.locator)
			})
		}

		intrusion := api.Group("/intrusion")
		{
			intrusion.POST("/report", func(c *gin.Context) {
				handler.ReportIntrusionHandler(c, a.broadcaster)
			})
			intrusion.GET("/stream", func(c *gin.Context) {
				handler.IntrusionStreamHandler(c, a.broadcaster, a.cfg.Push.KeepAlive)
			})
			intrusion.GET("/ws", func(c *gin.Context) {
				handler.IntrusionWebSocketHandler(c, a.broadcaster, a.log)
			})
		}

		push := api.Group("/push")
		{
			push.POST("/subscribe", func(c *gin.Context) {
				handler.PushSubscribeHandler(c, a.broadcaster.Push)
			})
			push.GET("/vapid-public-key", func(c *gin.Context) {
				handler.VAPIDPublicKeyHandler(c, a.cfg.Push.VAPIDPublicKey)
			})
		}

		api.GET("/health", func(c *gin.Context) {
			handler.HealthHandler(c, a.broadcaster)
		})
	}

	return router
}

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	utils.InitValidator()

	logger := logging.New(cfg.LogLevel, cfg.GinMode)

	a, cleanup, err := buildApp(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(context.Background(), "server starting", "addr", srv.Addr)
	if err := serve(srv, logger, a.broadcaster.Close); err != nil {
		cleanup()
		log.Fatalf("Server error: %v", err)
	}
	cleanup()
	logger.Info(context.Background(), "server shutdown complete")
}
