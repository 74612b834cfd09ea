package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/config"
	"github.com/mamadbah2/pagne/internal/repository/memory"
	"github.com/mamadbah2/pagne/internal/repository/mongodb"
	"github.com/mamadbah2/pagne/internal/repository/sheets"
	"github.com/mamadbah2/pagne/internal/scheduler"
	"github.com/mamadbah2/pagne/internal/server/handlers"
	"github.com/mamadbah2/pagne/internal/server/router"
	"github.com/mamadbah2/pagne/internal/service/ledger"
	"github.com/mamadbah2/pagne/internal/service/notify"
	reportingsvc "github.com/mamadbah2/pagne/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/pagne/pkg/clients/whatsapp"
	"github.com/mamadbah2/pagne/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store ledger.OrderStore
	switch cfg.Store.Driver {
	case config.StoreMemory:
		baseLogger.Warn("using in-memory order store, orders are lost on restart")
		store = memory.NewOrderRepository()
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.Collection)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	}

	center := notify.NewCenter(notify.DefaultMaxToasts, baseLogger.Named("svc.notify"))
	orderLedger := ledger.NewLedger(store, center, cfg.Pricing, cfg.Ledger.DeleteConfirmTimeout, baseLogger.Named("svc.ledger"))

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orderLedger.Refresh(loadCtx); err != nil {
		baseLogger.Warn("initial order load failed, dashboard starts empty", zap.Error(err))
	}
	cancelLoad()

	dashboardHandler := handlers.NewDashboardHandler(orderLedger, center, baseLogger.Named("handlers.dashboard"))
	ordersHandler := handlers.NewOrdersHandler(orderLedger, baseLogger.Named("handlers.orders"))
	engine := router.New(dashboardHandler, ordersHandler, baseLogger.Named("router"))

	if cfg.WhatsApp.Enabled() || cfg.Sheets.Enabled() {
		var sheetsRepo sheets.Repository
		if cfg.Sheets.Enabled() {
			repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
			if err != nil {
				baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
			}
			sheetsRepo = repo
		}

		var sender scheduler.MessageSender
		if cfg.WhatsApp.Enabled() {
			sender = whatsappclient.NewClient(cfg.WhatsApp)
		}

		reportingSvc := reportingsvc.NewService(orderLedger, sheetsRepo, baseLogger.Named("svc.reporting"))
		sched, err := scheduler.NewScheduler(*cfg, reportingSvc, sender, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	} else {
		baseLogger.Info("weekly report disabled, neither whatsapp nor sheets is configured")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
