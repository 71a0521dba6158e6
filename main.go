package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chamber-cms/cache"
	"chamber-cms/config"
	"chamber-cms/imaging"
	"chamber-cms/logging"
	"chamber-cms/mailer"
	"chamber-cms/realtime"
	"chamber-cms/repositories"
	"chamber-cms/router"
	"chamber-cms/scheduler"
	"chamber-cms/services"
	"chamber-cms/storage"

	"github.com/gin-gonic/gin"
)

const appName = "Chamber of Commerce & Industry"

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, flush := logging.Setup(logging.Options{
		Level:        cfg.LogLevel,
		Env:          cfg.Env,
		RollbarToken: cfg.RollbarToken,
	})
	defer flush()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realtime hub, response cache and the cross-instance backplane
	hub := realtime.NewHub()
	defer hub.Close()

	var (
		responseCache cache.Cache
		events        realtime.Broadcaster
	)
	if cfg.UseRedis() {
		client, err := cache.ConnectRedis(cfg.RedisURL, cfg.DBConnectTimeout)
		if err != nil {
			return err
		}
		defer client.Close()

		responseCache = cache.NewRedisCache(client, "chamber:cache:", cfg.CacheTTL)
		backplane := realtime.NewRedisBroadcaster(client, hub)
		go func() {
			if err := backplane.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("realtime backplane stopped", "error", err)
			}
		}()
		events = backplane
		logger.Info("using redis for cache and realtime fan-out")
	} else {
		responseCache = cache.NewMemoryCache(cfg.CacheTTL, time.Minute)
		events = realtime.NewLocalBroadcaster(hub)
	}
	defer responseCache.Close()

	uploads, err := storage.NewLocal(cfg.UploadsDir, cfg.MaxUploadSize)
	if err != nil {
		return err
	}

	email := mailer.FromSettings(mailer.Settings{
		From:              mail.Address{Name: cfg.MailFromName, Address: cfg.MailFrom},
		BrevoAPIKey:       cfg.BrevoAPIKey,
		BrevoSMTPUser:     cfg.BrevoSMTPUser,
		BrevoSMTPPassword: cfg.BrevoSMTPPassword,
		SendGridAPIKey:    cfg.SendGridAPIKey,
		GmailUser:         cfg.GmailUser,
		GmailAppPassword:  cfg.GmailAppPassword,
	})
	logger.Info("email providers configured", "providers", email.Providers())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	noticeRepo := repositories.NewNoticeRepository(db)
	newsRepo := repositories.NewNewsRepository(db)
	galleryRepo := repositories.NewGalleryRepository(db)
	formRepo := repositories.NewFormRepository(db)

	// Initialize services
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	authService := services.NewAuthService(userRepo, tokens, email, events, services.AuthConfig{
		BcryptCost:        cfg.BcryptCost,
		ClientURL:         cfg.ClientURL,
		ResetLinkFallback: cfg.ResetLinkFallback,
	})
	if err := authService.EnsureBootstrapAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}

	maintenance := services.NewMaintenanceService(userRepo, noticeRepo, galleryRepo, formRepo, uploads)
	jobs := scheduler.New(maintenance, logger)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	engine := router.New(router.Deps{
		AppName:        appName,
		AllowedOrigins: []string{cfg.FrontendURL, cfg.ClientURL},
		MaxUploadSize:  cfg.MaxUploadSize,
		RateLimits: router.RateLimits{
			Auth:       cfg.AuthRateLimit,
			AuthWindow: cfg.AuthRateWindow,
			API:        cfg.APIRateLimit,
			APIWindow:  cfg.APIRateWindow,
		},
		Logger:  logger,
		Tokens:  tokens,
		Auth:    authService,
		Users:   services.NewUserService(userRepo, events, cfg.BcryptCost),
		Notices: services.NewNoticeService(noticeRepo, uploads, responseCache, events),
		News:    services.NewNewsService(newsRepo, responseCache, events),
		Gallery: services.NewGalleryService(galleryRepo, uploads, imaging.NewOptimizer(), responseCache, events),
		Forms:   services.NewFormService(formRepo, uploads, events),
		Email:   email,
		Files:   uploads,
		Cache:   responseCache,
		Hub:     hub,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.Env)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown started")

		// give outstanding requests a deadline for completion
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("could not stop server gracefully", "error", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("could not force stop server: %w", err)
			}
		}
	}

	logger.Info("server stopped")
	return nil
}
