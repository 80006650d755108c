package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/forka/forum-backend/internal/api"
	"github.com/forka/forum-backend/internal/core/service"
	"github.com/forka/forum-backend/internal/infrastructure/config"
	mongodb "github.com/forka/forum-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/forka/forum-backend/internal/infrastructure/db/redis"
	"github.com/forka/forum-backend/internal/infrastructure/email"
	"github.com/forka/forum-backend/internal/infrastructure/queue"
	"github.com/forka/forum-backend/internal/infrastructure/token"
	"github.com/forka/forum-backend/pkg/logger"
)

func main() {
	// Local development convenience; in production the environment is real.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	codeRepo := mongodb.NewVerificationRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":              userRepo.EnsureIndexes,
		"verification_codes": codeRepo.EnsureIndexes,
		"categories":         categoryRepo.EnsureIndexes,
		"posts":              postRepo.EnsureIndexes,
		"comments":           commentRepo.EnsureIndexes,
		"notifications":      notificationRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Infrastructure ---
	mailer, err := email.NewSMTPMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("smtp client failed")
	}

	tokenStore := redisdb.NewTokenStore(rdb)
	issuer := token.NewJWTIssuer(cfg.JWTSecret, tokenStore, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	limiter := redisdb.NewRateLimiter(rdb)

	// --- Services ---
	passwordPolicy := service.NewPasswordPolicy(cfg.Security.PasswordMinLength)
	authService := service.NewAuthService(
		userRepo,
		codeRepo,
		mongodb.NewTransactor(mongoClient),
		mailer,
		issuer,
		passwordPolicy,
		service.AuthConfig{
			LockoutThreshold: cfg.Security.LockoutThreshold,
			LockoutDuration:  cfg.Security.LockoutDuration,
			BcryptCost:       cfg.Security.BcryptCost,
		},
		log,
	)

	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	dispatcher := queue.NewDispatcher(0, notificationService, log)
	dispatcher.Start(ctx)

	postService := service.NewPostService(postRepo, commentRepo, categoryRepo, dispatcher, log)
	commentService := service.NewCommentService(commentRepo, postRepo, dispatcher, log)
	categoryService := service.NewCategoryService(categoryRepo, postRepo, log)
	userService := service.NewUserService(userRepo, passwordPolicy, cfg.Security.BcryptCost, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Posts:         postService,
		Comments:      commentService,
		Categories:    categoryService,
		Notifications: notificationService,
		Users:         userService,
		Limit:         limiter.Allow,
		JWTSecret:     cfg.JWTSecret,
		Mongo:         db,
		Redis:         rdb,
		Log:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
