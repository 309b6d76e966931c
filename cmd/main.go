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

	_ "pharmpal/docs"
	"pharmpal/internal/caching"
	"pharmpal/internal/config"
	"pharmpal/internal/handlers"
	"pharmpal/internal/jobs"
	"pharmpal/internal/jobs/background"
	"pharmpal/internal/llm"
	"pharmpal/internal/middleware"
	"pharmpal/internal/ocr"
	"pharmpal/internal/repositories"
	"pharmpal/internal/services"
	"pharmpal/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const version = "1.0.0"

//	@title						PharmPal API
//	@version					1.0
//	@description				Pharmacy inventory: catalog, batches, label OCR, voice intake and an assistant.
//	@BasePath					/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	log.SetLevel(log.INFO)

	if err := run(); err != nil {
		log.Fatalf("pharmpal: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, pool); err != nil {
			return err
		}
	}
	store := repositories.NewStore(pool)

	// Redis cache
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// MinIO capture archive
	var objects services.ObjectStore
	if cfg.Minio.Endpoint != "" {
		objects, err = services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO service: %w", err)
		}
		if err := objects.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
			log.Warnf("capture bucket %s unavailable: %v", cfg.Minio.Bucket, err)
		}
	}
	archive := services.NewArchiveService(objects, cfg.Minio.Bucket)

	// Collaborators
	groq := llm.NewGroqClient(llm.GroqConfig{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		ChatModel:       cfg.LLM.ChatModel,
		TranscribeModel: cfg.LLM.TranscribeModel,
	})
	tesseract := ocr.NewTesseract(cfg.OCR.TesseractPath)
	tesseract.Language = cfg.OCR.Language

	// Services
	ledgerSvc := services.NewLedgerService(store, cacheSvc)
	catalogSvc := services.NewCatalogService(store, cacheSvc)
	intakeSvc := services.NewIntakeService(tesseract, groq, groq, ledgerSvc, archive)
	assistantSvc := services.NewAssistantService(groq, catalogSvc)
	authSvc := services.NewAuthService(store.Users(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	alertSvc := jobs.NewExpiryAlertService(store.Users(), catalogSvc, cacheSvc, cfg.Alerts.Days, 2*cfg.Alerts.Interval)

	// Background jobs
	scheduler, err := background.NewJobScheduler(alertSvc, cfg.Alerts.Interval)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warnf("scheduler shutdown: %v", err)
		}
	}()

	// Authentication
	authenticator, err := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWKSURL)
	if err != nil {
		return err
	}
	defer authenticator.Close()
	if cfg.Auth.JWKSURL == "" {
		authenticator.RequireActiveUsers(store.Users())
	}
	limiter := middleware.NewRateLimiter(cacheSvc, cfg.RateLimit.PerMinute, time.Minute)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = handlers.NewRequestValidator()

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit("12M"))
	e.Use(middleware.AuditStockChanges())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	v1 := versionMiddleware.VersionRoute(e, "v1")
	handlers.RegisterRoutes(v1, &handlers.Handlers{
		Auth:      handlers.NewAuthHandlers(authSvc),
		Medicines: handlers.NewMedicineHandlers(catalogSvc, ledgerSvc),
		Inventory: handlers.NewInventoryHandlers(ledgerSvc, alertSvc),
		Intake:    handlers.NewIntakeHandlers(intakeSvc),
		Chatbot:   handlers.NewChatbotHandlers(assistantSvc),
	}, authenticator.Middleware(), limiter.Limit)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Infof("PharmPal server v%s starting on port %d", version, cfg.Server.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
