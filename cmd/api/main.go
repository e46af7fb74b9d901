package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/handler"
	"github.com/studyslot/studyslot-api/internal/repository"
	"github.com/studyslot/studyslot-api/internal/service"
	"github.com/studyslot/studyslot-api/pkg/cache"
	"github.com/studyslot/studyslot-api/pkg/config"
	"github.com/studyslot/studyslot-api/pkg/database"
	"github.com/studyslot/studyslot-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	var slotCache *repository.SlotCache
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			slotCache = repository.NewSlotCache(redisClient, cfg.Cache.AvailabilityTTL, log)
			log.Info("availability cache enabled", zap.Duration("ttl", cfg.Cache.AvailabilityTTL))
		}
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	if cfg.Seed.DemoUsers {
		if err := service.SeedDemoUsers(ctx, userRepo, log); err != nil {
			log.Warn("failed to seed demo users", zap.Error(err))
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, log, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, log)
	subjectSvc := service.NewSubjectService(subjectRepo, userRepo, validate, log)
	slotSvc := service.NewSlotService(slotRepo, subjectRepo, bookingRepo, slotCache, userRepo, validate, log)
	bookingSvc := service.NewBookingService(bookingRepo, slotRepo, slotCache, userRepo, metricsSvc, log)

	secureCookie := cfg.Env == config.EnvProduction

	authHandler := handler.NewAuthHandler(authSvc, secureCookie)
	studentHandler := handler.NewStudentHandler(bookingSvc)
	tutorHandler := handler.NewTutorHandler(slotSvc, subjectSvc)
	adminHandler := handler.NewAdminHandler(userSvc, subjectSvc, bookingSvc)

	router := handler.NewRouter(handler.RouterConfig{
		AuthService:    authSvc,
		Metrics:        metricsSvc,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookie:   secureCookie,
		TemplatesGlob:  "web/templates/*.tmpl",
	}, authHandler, studentHandler, tutorHandler, adminHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
