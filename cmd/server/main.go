package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitesurvey/internal/survey/auth"
	"sitesurvey/internal/survey/config"
	"sitesurvey/internal/survey/export"
	"sitesurvey/internal/survey/handler"
	"sitesurvey/internal/survey/repository"
	"sitesurvey/internal/survey/router"
	"sitesurvey/internal/survey/service"
	"sitesurvey/internal/survey/storage"
	"sitesurvey/internal/survey/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 0. Init Logger
	util.InitLogger()
	logger := util.GetLogger()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Init MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	db := client.Database(cfg.DBName)
	recordRepo := repository.NewMongoRecordRepository(db, cfg.RecordsCollection)
	userRepo := repository.NewMongoUserRepository(db, cfg.UsersCollection)

	// Ensure Indexes
	if err := recordRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure record indexes", "error", err)
	}
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure user indexes", "error", err)
	}

	// 3. Init Redis session store
	redisClient, err := auth.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	sessionStore := auth.NewRedisSessionStore(redisClient)
	sessions := auth.NewSessionManager(sessionStore, []byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.SessionTTL)

	// 4. Init object store (survey images)
	objects, err := storage.NewMinioStore(cfg.BlobEndpoint, cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.BlobBucket, cfg.BlobUseSSL)
	if err != nil {
		logger.Error("Failed to init object store", "error", err)
		os.Exit(1)
	}
	if err := objects.EnsureBucket(context.Background()); err != nil {
		logger.Warn("Failed to ensure image bucket", "error", err)
	}

	// 5. Init Layers
	authenticator := auth.NewAuthenticator(userRepo, logger)
	svc := service.NewService(recordRepo, objects, logger)
	images := export.NewHTTPImageFetcher(cfg.ImageFetchTimeout)
	h := handler.NewHandler(authenticator, sessions, svc, images, logger, cfg.ExportBatchDelay)

	// 6. Init Echo & Routes
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, sessions)

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown Echo/Server
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	// Disconnect DB and Redis
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect DB", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client", "error", err)
	}

	logger.Info("Server exited properly")
}
