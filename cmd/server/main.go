package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	fundingapp "github.com/ffe/backend/internal/application/funding"
	"github.com/ffe/backend/internal/application/identity"
	orgapp "github.com/ffe/backend/internal/application/organisation"
	"github.com/ffe/backend/internal/application/preapplication"
	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/infrastructure/auth"
	"github.com/ffe/backend/internal/infrastructure/cache"
	"github.com/ffe/backend/internal/infrastructure/config"
	"github.com/ffe/backend/internal/infrastructure/logger"
	"github.com/ffe/backend/internal/infrastructure/messaging"
	"github.com/ffe/backend/internal/infrastructure/migration"
	"github.com/ffe/backend/internal/infrastructure/persistence"
	"github.com/ffe/backend/internal/infrastructure/salesforce"
	"github.com/ffe/backend/internal/infrastructure/scheduler"
	"github.com/ffe/backend/internal/infrastructure/storage"
	"github.com/ffe/backend/internal/interfaces/http/handler"
	"github.com/ffe/backend/internal/interfaces/http/middleware"
	"github.com/ffe/backend/internal/interfaces/http/router"
	"github.com/ffe/backend/migrations"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.FromConfig(cfg.Log, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FFE Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithRedactedValues(cfg.IsProduction()),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get database handle", zap.Error(err))
		}
		if err := applyMigrations(sqlDB, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	orgRepo := persistence.NewGormOrganisationRepository(db.DB)
	checkRepo := persistence.NewGormChangesCheckRepository(db.DB)
	appRepo := persistence.NewGormFundingApplicationRepository(db.DB)
	signatoryRepo := persistence.NewGormLegalSignatoryRepository(db.DB)
	paymentRequestRepo := persistence.NewGormPaymentRequestRepository(db.DB)
	preAppRepo := persistence.NewGormPreApplicationRepository(db.DB)

	// Redis backed submission lock and feature flags
	locker, flags, redisClient, err := cache.NewFactory(cfg.Redis, cfg.FeatureFlags,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	crm, err := salesforce.NewClient(&salesforce.Config{
		Username:       cfg.Salesforce.Username,
		Password:       cfg.Salesforce.Password,
		SecurityToken:  cfg.Salesforce.SecurityToken,
		ClientID:       cfg.Salesforce.ClientID,
		ClientSecret:   cfg.Salesforce.ClientSecret,
		Host:           cfg.Salesforce.Host,
		APIVersion:     cfg.Salesforce.APIVersion,
		TimeoutSeconds: cfg.Salesforce.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize Salesforce client", zap.Error(err))
	}

	store := newDocumentStore(cfg, log)

	notices, closeNotices := newNoticeQueue(cfg, log)
	defer closeNotices()

	// Application services
	syncService := orgapp.NewSyncService(orgRepo, checkRepo, crm, notices, log,
		orgapp.WithSupportMailbox(cfg.App.SupportMailbox),
	)
	wizardService := orgapp.NewWizardService(orgRepo, syncService, flags, log)
	documentService := orgapp.NewDocumentService(orgRepo, store, log)
	submissionService := fundingapp.NewSubmissionService(appRepo, userRepo, orgRepo, syncService, crm, locker, notices, log)
	awardService := fundingapp.NewAwardService(appRepo, crm, log)
	signatoryService := fundingapp.NewSignatoryService(signatoryRepo, appRepo, userRepo, log)
	paymentService := fundingapp.NewPaymentService(appRepo, paymentRequestRepo, crm, store, log)
	preAppService := preapplication.NewSubmissionService(preAppRepo, userRepo, orgRepo, syncService, crm, notices, log)
	accessService := identity.NewAccessService(userRepo, appRepo, preAppRepo, log)

	// Background refresh of linked organisations
	refresher, err := scheduler.NewRefreshScheduler(orgRepo, syncService, log, cfg.Scheduler)
	if err != nil {
		log.Fatal("Failed to create refresh scheduler", zap.Error(err))
	}
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if err := refresher.Start(schedulerCtx); err != nil {
		log.Fatal("Failed to start refresh scheduler", zap.Error(err))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(securityConfig(cfg)))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	healthChecks := map[string]handler.HealthCheck{
		"database":  func(context.Context) error { return db.Ping() },
		"scheduler": refresher.HealthCheck,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, healthChecks)
	engine.GET("/health", systemHandler.Health)

	jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
	jwtConfig.Logger = log
	jwtConfig.SkipPathPrefixes = []string{"/api/v1/system/"}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	router.RegisterAPI(r, router.Handlers{
		Organisations:       handler.NewOrganisationHandler(accessService, wizardService, syncService, documentService),
		FundingApplications: handler.NewFundingApplicationHandler(accessService, submissionService, awardService, signatoryService, paymentService),
		PreApplications:     handler.NewPreApplicationHandler(accessService, preAppService),
		System:              systemHandler,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := refresher.Stop(ctx); err != nil {
		log.Warn("Refresh scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func applyMigrations(db *sql.DB, log *zap.Logger) error {
	m, err := migration.New(db, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close db, which gorm still uses.
	return m.Up()
}

// newDocumentStore returns the S3 store, or an in-memory store outside
// production when no bucket is configured
func newDocumentStore(cfg *config.Config, log *zap.Logger) document.Store {
	if cfg.Storage.Bucket == "" {
		log.Warn("No storage bucket configured, governing documents are kept in memory")
		return storage.NewMemoryDocumentStore()
	}
	s3Store, err := storage.NewS3DocumentStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Store.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify storage bucket", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
	}
	return s3Store
}

// newNoticeQueue returns the Kafka mail queue, or a log-only queue when no
// brokers are configured
func newNoticeQueue(cfg *config.Config, log *zap.Logger) (notification.Queue, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("No Kafka brokers configured, notices are only logged")
		return messaging.NewLogNoticeQueue(log), func() {}
	}
	queue, err := messaging.NewKafkaNoticeQueue(cfg.Kafka, log)
	if err != nil {
		log.Fatal("Failed to initialize notice queue", zap.Error(err))
	}
	return queue, func() {
		if err := queue.Close(); err != nil {
			log.Error("Error closing notice queue", zap.Error(err))
		}
	}
}

func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sc := middleware.DefaultSecurityConfig()
	sc.HSTSEnabled = cfg.IsProduction()
	return sc
}
