package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	_ "mnki/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"mnki/internal/auth"
	"mnki/internal/cache"
	"mnki/internal/config"
	"mnki/internal/db"
	"mnki/internal/handler"
	"mnki/internal/model"
	"mnki/internal/repository"
	"mnki/internal/router"
	"mnki/internal/service"
	"mnki/internal/storage"
)

// @title MNKI Fitness API
// @version 1.0
// @description Training-management backend with cookie-based JWT authentication, member management, events, and trainer notes.
// @host localhost:5000
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		slog.Error("database init", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.TrainedBy{},
		&model.TrainingNote{},
		&model.Event{},
		&model.EventLike{},
	); err != nil {
		slog.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	minioClient, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		slog.Error("object storage init", "error", err)
		os.Exit(1)
	}
	if err := minioClient.EnsureBucket(context.Background()); err != nil {
		slog.Error("ensure bucket", "error", err)
		os.Exit(1)
	}
	images := storage.NewImageStore(minioClient, cfg.MinioPublicURL)

	sessions := auth.NewSessionService(cfg.JWTSecret, cfg.IsProduction())

	userRepo := repository.NewUserRepository(gormDB)
	trainedRepo := repository.NewTrainedByRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	authService := service.NewAuthService(userRepo, sessions, images)
	googleService := service.NewGoogleAuthService(userRepo, sessions, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	memberService := service.NewMemberService(userRepo, trainedRepo, images)
	profileService := service.NewProfileService(userRepo, images, cacheClient)
	eventService := service.NewEventService(eventRepo, images, cacheClient)
	noteService := service.NewNoteService(noteRepo, trainedRepo)

	authHandler := handler.NewAuthHandler(authService, googleService, sessions)
	memberHandler := handler.NewMemberHandler(memberService)
	profileHandler := handler.NewProfileHandler(profileService)
	eventHandler := handler.NewEventHandler(eventService)
	noteHandler := handler.NewNoteHandler(noteService)

	e := echo.New()
	e.HideBanner = true

	router.Register(
		e,
		cfg,
		sessions,
		authHandler,
		memberHandler,
		profileHandler,
		eventHandler,
		noteHandler,
	)

	addr := ":" + cfg.ServerPort
	slog.Info("server starting", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("server start", "error", err)
		os.Exit(1)
	}
}
