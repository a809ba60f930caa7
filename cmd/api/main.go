package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"ecofinds/internal/config"
	"ecofinds/internal/db"
	"ecofinds/internal/email"
	apihttp "ecofinds/internal/http"
	"ecofinds/internal/repository"
	"ecofinds/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var userCache service.UserCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			userCache = service.NewRedisUserCache(redisClient)
		}
		cancel()
	}

	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour
	sessionSvc := service.NewSessionService(cfg.JWTSecret, sessionTTL)
	authSvc := service.NewAuthService(logger, userRepo, emailSender, userCache, cfg.ClientURL)

	cookies := apihttp.NewSessionCookies(cfg.CookieSecure, sessionTTL)
	authHandler := apihttp.NewAuthHandler(logger, authSvc, sessionSvc, cookies)
	router := apihttp.NewRouter(logger, authHandler, sessionSvc, cfg.ClientURL)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
