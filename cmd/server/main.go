package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	adminapp "github.com/leaftolife/backend/internal/application/admin"
	catalogapp "github.com/leaftolife/backend/internal/application/catalog"
	identityapp "github.com/leaftolife/backend/internal/application/identity"
	membershipapp "github.com/leaftolife/backend/internal/application/membership"
	patientapp "github.com/leaftolife/backend/internal/application/patient"
	salesapp "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/auth"
	"github.com/leaftolife/backend/internal/infrastructure/config"
	"github.com/leaftolife/backend/internal/infrastructure/event"
	"github.com/leaftolife/backend/internal/infrastructure/logger"
	"github.com/leaftolife/backend/internal/infrastructure/mail"
	"github.com/leaftolife/backend/internal/infrastructure/pdf"
	"github.com/leaftolife/backend/internal/infrastructure/persistence"
	"github.com/leaftolife/backend/internal/infrastructure/storage"
	"github.com/leaftolife/backend/internal/infrastructure/telemetry"
	"github.com/leaftolife/backend/internal/interfaces/http/handler"
	"github.com/leaftolife/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	meter, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize metrics", zap.Error(err))
	}
	salesMetrics, err := telemetry.NewSalesMetrics(meter.Meter("sales"), log)
	if err != nil {
		log.Fatal("failed to register sales metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, gormlogger.Warn,
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
			log.Fatal("failed to instrument database", zap.Error(err))
		}
	}

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisBlacklist.Close() }()
		blacklist = redisBlacklist
	} else {
		log.Warn("redis not configured, using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	patientRepo := persistence.NewGormPatientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	blendRepo := persistence.NewGormBlendTemplateRepository(db.DB)
	bundleRepo := persistence.NewGormBundleRepository(db.DB)
	tierRepo := persistence.NewGormTierRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txnRepo := persistence.NewGormTransactionRepository(db.DB)
	checkoutScope := persistence.NewGormCheckoutScope(db.DB)
	productionScope := persistence.NewGormProductionScope(db.DB)

	renderer := newInvoiceRenderer(cfg, log)
	defer renderer.Close()

	invoiceStore, err := storage.NewInvoiceStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize invoice storage", zap.Error(err))
	}
	invoiceMailer, err := mail.NewInvoiceMailer(cfg.Mail, cfg.Invoice.ClinicName, log)
	if err != nil {
		log.Fatal("failed to initialize invoice mailer", zap.Error(err))
	}

	patientService := patientapp.NewService(patientRepo, tierRepo)
	productService := catalogapp.NewProductService(productRepo, supplierRepo)
	supplierService := catalogapp.NewSupplierService(supplierRepo)
	blendService := catalogapp.NewBlendService(blendRepo, productRepo, productionScope)
	bundleService := catalogapp.NewBundleService(bundleRepo, productRepo)
	tierService := membershipapp.NewService(tierRepo, patientRepo)
	userService := identityapp.NewUserService(userRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	transactionService := salesapp.NewTransactionService(txnRepo, patientRepo, tierRepo,
		productRepo, blendRepo, bundleRepo, checkoutScope)
	invoiceService := salesapp.NewInvoiceService(txnRepo, renderer, invoiceStore, invoiceMailer, log)
	invoiceService.SetMetrics(salesMetrics)
	bulkService := adminapp.NewBulkService(productRepo, patientRepo, tierRepo, log)

	bus := event.NewInMemoryEventBus(log)
	invoiceHandler := salesapp.NewTransactionCompletedHandler(invoiceService, log)
	bus.Subscribe(invoiceHandler, invoiceHandler.EventTypes()...)
	metricsHandler := salesapp.NewTransactionMetricsHandler(salesMetrics)
	bus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)

	patientService.SetEventPublisher(bus)
	productService.SetEventPublisher(bus)
	blendService.SetEventPublisher(bus)
	transactionService.SetEventPublisher(bus)

	handlers := router.Handlers{
		System:      handler.NewSystemHandler(db.DB, cfg.App.Name),
		Auth:        handler.NewAuthHandler(authService, userService),
		Patient:     handler.NewPatientHandler(patientService),
		Product:     handler.NewProductHandler(productService),
		Supplier:    handler.NewSupplierHandler(supplierService),
		Blend:       handler.NewBlendHandler(blendService),
		Bundle:      handler.NewBundleHandler(bundleService),
		Transaction: handler.NewTransactionHandler(transactionService, invoiceService),
		Tier:        handler.NewTierHandler(tierService),
		User:        handler.NewUserHandler(userService, authService),
		Admin:       handler.NewAdminHandler(bulkService),
	}

	r := router.New(handlers, router.Options{
		Config:           cfg.HTTP,
		Validator:        authService,
		Logger:           log,
		TelemetryEnabled: cfg.Telemetry.Enabled,
		ServiceName:      cfg.Telemetry.ServiceName,
	})
	defer r.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("event bus shutdown failed", zap.Error(err))
	}

	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("tracer shutdown failed", zap.Error(err))
	}
	if err := meter.Shutdown(shutdownCtx); err != nil {
		log.Warn("meter shutdown failed", zap.Error(err))
	}

	log.Info("server exited")
}

func newInvoiceRenderer(cfg *config.Config, log *zap.Logger) *pdf.ChromedpRenderer {
	opts := []pdf.ChromedpOption{pdf.WithLogger(log)}
	if os.Getenv("CHROME_REMOTE_URL") != "" {
		opts = append(opts, pdf.WithRemoteURL(os.Getenv("CHROME_REMOTE_URL")))
	}
	if os.Getenv("CHROME_NO_SANDBOX") == "true" {
		opts = append(opts, pdf.WithNoSandbox())
	}
	return pdf.NewChromedpRenderer(cfg.Invoice, opts...)
}
