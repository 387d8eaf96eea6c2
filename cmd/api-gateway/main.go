package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lpk-cms-api/api/swagger"
	"github.com/noah-isme/lpk-cms-api/internal/handler"
	"github.com/noah-isme/lpk-cms-api/internal/middleware"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	"github.com/noah-isme/lpk-cms-api/pkg/cache"
	"github.com/noah-isme/lpk-cms-api/pkg/config"
	"github.com/noah-isme/lpk-cms-api/pkg/database"
	"github.com/noah-isme/lpk-cms-api/pkg/jobs"
	"github.com/noah-isme/lpk-cms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lpk-cms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lpk-cms-api/pkg/middleware/requestid"
	"github.com/noah-isme/lpk-cms-api/pkg/storage"
)

// @title LPK CMS API
// @version 1.0.0
// @description Content management API for the LPK training institute website
// @BasePath /api
// @schemes http https
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("schema migration failed", "error", err)
	}

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer func(c *redis.Client) { _ = c.Close() }(client)
			cacheRepo := repository.NewCacheRepository(client, "lpk-cms", logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	uploadStore, backupStore, uploadPrefix, err := objectStores(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("storage init failed", "error", err)
	}

	validate := validator.New()

	users := repository.NewUserRepository(db)
	programs := repository.NewProgramRepository(db)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	if err := authSvc.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logr.Warn("bootstrap admin not seeded", zap.Error(err))
	}

	programSvc := service.NewProgramService(programs, cacheSvc, validate, logr)
	newsSvc := service.NewNewsService(repository.NewNewsRepository(db), validate, logr)
	graduateSvc := service.NewGraduateService(repository.NewGraduateRepository(db), validate, logr)
	gallerySvc := service.NewGalleryService(repository.NewGalleryRepository(db), logr)
	sliderSvc := service.NewSliderService(repository.NewSliderRepository(db), logr)
	contactSvc := service.NewContactMessageService(repository.NewContactMessageRepository(db), validate, logr)
	profileSvc := service.NewProfileSectionService(repository.NewProfileSectionRepository(db), cacheSvc, logr)
	settingSvc := service.NewSiteSettingService(repository.NewSiteSettingRepository(db), cacheSvc, logr)
	registrationSvc := service.NewRegistrationService(repository.NewRegistrationRepository(db), programs, metrics, validate, logr,
		service.RegistrationConfig{MaxAttempts: cfg.Registration.MaxAttempts, Location: cfg.Registration.Location})
	organizationSvc := service.NewOrganizationService(repository.NewOrganizationMemberRepository(db), logr)
	dashboardSvc := service.NewDashboardService(repository.NewDashboardRepository(db), logr)
	uploadSvc := service.NewUploadService(uploadStore, metrics, logr, service.UploadConfig{
		MaxFileSizeBytes: cfg.Upload.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Upload.AllowedMIMEs,
		KeyPrefix:        uploadPrefix,
	})

	signer := storage.NewSignedURLSigner(cfg.Backup.SignedURLSecret, cfg.Backup.SignedURLTTL)
	backupSvc := service.NewBackupService(repository.NewBackupRepository(db), cacheSvc, backupStore, signer, metrics, logr)
	snapshotQueue := jobs.NewQueue("backup-snapshots", backupSvc.ProcessSnapshot, jobs.QueueConfig[string]{
		Workers:    cfg.Backup.Workers,
		MaxRetries: cfg.Backup.Retries,
		RetryDelay: 2 * time.Second,
		OnFailure:  backupSvc.SnapshotFailed,
		Logger:     logr,
	})
	backupSvc.AttachQueue(snapshotQueue)
	snapshotQueue.Start(ctx)
	defer snapshotQueue.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	health := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)

	if !cfg.S3.Enabled() {
		r.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:           handler.NewAuthHandler(authSvc),
		Program:        handler.NewProgramHandler(programSvc),
		News:           handler.NewNewsHandler(newsSvc),
		Graduate:       handler.NewGraduateHandler(graduateSvc),
		Gallery:        handler.NewGalleryHandler(gallerySvc),
		Slider:         handler.NewSliderHandler(sliderSvc),
		ContactMessage: handler.NewContactMessageHandler(contactSvc),
		ProfileSection: handler.NewProfileSectionHandler(profileSvc),
		SiteSetting:    handler.NewSiteSettingHandler(settingSvc),
		Registration:   handler.NewRegistrationHandler(registrationSvc),
		Organization:   handler.NewOrganizationHandler(organizationSvc),
		Backup:         handler.NewBackupHandler(backupSvc),
		Upload:         handler.NewUploadHandler(uploadSvc),
		Dashboard:      handler.NewDashboardHandler(dashboardSvc),
	}, handler.RouteOptions{
		Auth:   middleware.JWT(authSvc),
		Audit:  users,
		Logger: logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// objectStores picks S3 when a bucket is configured and local directories otherwise.
// Backups go to a private S3 target kept apart from public uploads.
// The returned prefix is prepended to upload keys.
func objectStores(ctx context.Context, cfg *config.Config) (uploads, backups storage.ObjectStore, uploadPrefix string, err error) {
	if cfg.S3.Enabled() {
		backupTarget, err := cfg.BackupS3()
		if err != nil {
			return nil, nil, "", err
		}
		uploadStore, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, nil, "", err
		}
		backupStore, err := storage.NewS3Storage(ctx, backupTarget)
		if err != nil {
			return nil, nil, "", err
		}
		return uploadStore, backupStore, config.UploadKeyPrefix, nil
	}
	uploadStore, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.PublicPath)
	if err != nil {
		return nil, nil, "", err
	}
	backupStore, err := storage.NewLocalStorage(cfg.Backup.StorageDir, "")
	if err != nil {
		return nil, nil, "", err
	}
	return uploadStore, backupStore, "", nil
}
