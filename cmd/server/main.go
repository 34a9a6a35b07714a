package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/oms/backend/internal/application/billing"
	orderapp "github.com/oms/backend/internal/application/ordering"
	reportapp "github.com/oms/backend/internal/application/report"
	"github.com/oms/backend/internal/infrastructure/config"
	"github.com/oms/backend/internal/infrastructure/logger"
	"github.com/oms/backend/internal/infrastructure/persistence"
	"github.com/oms/backend/internal/interfaces/http/handler"
	"github.com/oms/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting order management backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderItemRepo := persistence.NewGormOrderItemRepository(db.DB)
	orderAddressRepo := persistence.NewGormOrderAddressRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	creditNoteItemRepo := persistence.NewGormCreditNoteItemRepository(db.DB)

	// Initialize transaction scopes
	orderScope := persistence.NewGormOrderTransactionScope(db.DB)
	billingScope := persistence.NewGormBillingTransactionScope(db.DB)

	// Initialize application services
	orderService := orderapp.NewOrderService(orderRepo, orderScope, log)
	creditNoteService := billingapp.NewCreditNoteService(creditNoteRepo, billingScope, log)
	reportService := reportapp.NewReconciliationService(
		orderRepo, orderItemRepo, orderAddressRepo,
		creditNoteRepo, creditNoteItemRepo, log)

	// Initialize HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	if err := handler.RegisterValidations(); err != nil {
		log.Fatal("Failed to register binding validations", zap.Error(err))
	}

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewOrderHandler(orderService, reportService))
	r.Register(handler.NewCreditNoteHandler(creditNoteService, reportService))
	r.Register(handler.NewReportHandler(reportService))
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
