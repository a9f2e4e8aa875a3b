package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/config"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/database"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/handlers"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/mailer"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/oauth"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/otp"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/repository"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/server"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/services"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/session"
	"github.com/Jerry-Khobby/shuttle-tracker-backend/internal/token"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting auth service in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo, logger)
	if err != nil {
		sugar.Fatalf("MongoDB connection failed: %v", err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		sugar.Fatalf("Redis connection failed: %v", err)
	}

	brevo := mailer.NewBrevoClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	if !brevo.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. OTP emails will be skipped.")
	} else {
		sugar.Info("Brevo client configured.")
	}

	providers := make(map[string]*oauth.Provider, len(cfg.OAuth))
	for name, p := range cfg.OAuth {
		providers[name] = oauth.NewProvider(name, p.ClientID, p.ClientSecret, p.RedirectURL, p.AuthURL, p.TokenURL, p.UserInfoURL, p.Scopes)
		sugar.Infof("OAuth provider registered: %s", name)
	}

	otpGen, err := otp.NewGenerator(cfg.Security.OtpSecret, cfg.Security.OtpDigits, cfg.Security.OtpPeriodSeconds, cfg.Security.OtpWindow)
	if err != nil {
		sugar.Fatalf("failed to initialise OTP generator: %v", err)
	}
	tokens := token.NewManager(cfg.App.JWT.Secret, time.Duration(cfg.App.JWT.TTLMinutes)*time.Minute)

	driverRepo := repository.NewMongoDriverRepo(db, cfg.Collections.Drivers)
	userRepo := repository.NewMongoUserRepo(db, cfg.Collections.Users)
	blacklistRepo := repository.NewMongoBlacklistRepo(db, cfg.Collections.Blacklist)
	sessions := session.NewStore(rdb)

	authSvc := services.NewAuthService(
		driverRepo, userRepo, blacklistRepo, sessions,
		otpGen, tokens, brevo, logger,
		cfg.Security.PendingLoginTTLMinutes,
		cfg.Security.PasswordHashCost,
		cfg.Security.BlacklistRetentionDays,
	)
	h := handlers.NewHandler(authSvc, providers, logger, cfg.Security.PendingLoginTTLMinutes)

	app := server.New(cfg, h, authSvc, logger)

	// daily revocation-ledger sweep, off the request path
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	sweeper := services.NewBlacklistSweeper(blacklistRepo, 24*time.Hour, sugar)
	go sweeper.Run(sweepCtx)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")
	cancelSweep()

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("Redis client close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
