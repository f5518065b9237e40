package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	alertingapp "github.com/emart/backend/internal/application/alerting"
	bulkapp "github.com/emart/backend/internal/application/bulk"
	catalogapp "github.com/emart/backend/internal/application/catalog"
	financeapp "github.com/emart/backend/internal/application/finance"
	identityapp "github.com/emart/backend/internal/application/identity"
	inventoryapp "github.com/emart/backend/internal/application/inventory"
	partnerapp "github.com/emart/backend/internal/application/partner"
	reportapp "github.com/emart/backend/internal/application/report"
	"github.com/emart/backend/internal/infrastructure/auth"
	"github.com/emart/backend/internal/infrastructure/config"
	"github.com/emart/backend/internal/infrastructure/event"
	"github.com/emart/backend/internal/infrastructure/importer"
	"github.com/emart/backend/internal/infrastructure/logger"
	"github.com/emart/backend/internal/infrastructure/persistence"
	"github.com/emart/backend/internal/infrastructure/telemetry"
	"github.com/emart/backend/internal/interfaces/http/handler"
	"github.com/emart/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting eMart backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := context.Background()
	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tracer.Shutdown(context.Background())
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			_ = redisBlacklist.Close()
		}()
	}

	// Repositories
	recordRepo := persistence.NewGormInventoryRecordRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	importJobRepo := persistence.NewGormImportJobRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Domain event wiring
	bus := event.NewInMemoryEventBus(log)
	lowStockNotifier := alertingapp.NewPersistingLowStockNotifier(alertRepo, log)
	bus.Subscribe(inventoryapp.NewLowStockHandler(log).WithNotifier(lowStockNotifier))

	// Application services
	inventoryService := inventoryapp.NewService(txScope, recordRepo, movementRepo, log).
		WithEventPublisher(bus)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, inventoryService)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, log)
	alertService := alertingapp.NewAlertService(alertRepo, log)
	importService := bulkapp.NewImportService(importJobRepo, importer.NewParser(), productService, supplierService, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo)
	reportService := reportapp.NewReportService(statsRepo, log)

	engine := router.New(router.Config{
		Logger:           log,
		JWTService:       jwtService,
		TokenBlacklist:   blacklist,
		AllowedOrigins:   cfg.HTTP.CORSAllowOrigins,
		TelemetryEnabled: tracer.IsEnabled(),
		ServiceName:      cfg.Telemetry.ServiceName,
		Handlers: router.Handlers{
			System:    handler.NewSystemHandler(db),
			Auth:      handler.NewAuthHandler(authService),
			User:      handler.NewUserHandler(userService),
			Inventory: handler.NewInventoryHandler(inventoryService),
			Product:   handler.NewProductHandler(productService),
			Category:  handler.NewCategoryHandler(categoryService),
			Supplier:  handler.NewSupplierHandler(supplierService),
			Invoice:   handler.NewInvoiceHandler(invoiceService),
			Alert:     handler.NewAlertHandler(alertService),
			Import:    handler.NewImportHandler(importService),
			Report:    handler.NewReportHandler(reportService),
		},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Background sweep marking unpaid invoices overdue and raising alerts
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Invoice.OverdueSweepEnabled {
		go runOverdueSweep(sweepCtx, cfg.Invoice.OverdueSweepInterval, invoiceService, alertService, log)
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// runOverdueSweep periodically flips unpaid invoices past their due date to
// overdue and raises a payment alert for each sweep that found any.
func runOverdueSweep(
	ctx context.Context,
	interval time.Duration,
	invoices *financeapp.InvoiceService,
	alerts *alertingapp.AlertService,
	log *zap.Logger,
) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := invoices.MarkOverdueInvoices(ctx, time.Now())
			if err != nil {
				log.Error("Overdue invoice sweep failed", zap.Error(err))
				continue
			}
			for _, invoiceNumber := range flagged {
				if err := alerts.RaiseOverduePayment(ctx, invoiceNumber, "Payment is past the due date"); err != nil {
					log.Error("Failed to raise overdue payment alert",
						zap.String("invoice_number", invoiceNumber),
						zap.Error(err),
					)
				}
			}
			if len(flagged) > 0 {
				log.Info("Marked invoices overdue", zap.Int("count", len(flagged)))
			}
		}
	}
}
