package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/config"
	"github.com/waste3d/course-marketplace/internal/application/analytics"
	"github.com/waste3d/course-marketplace/internal/application/usecase"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
	"github.com/waste3d/course-marketplace/internal/infrastructure/notify"
	"github.com/waste3d/course-marketplace/internal/infrastructure/persistence"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	zl, err := logger.New(cfg.LogProduction)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, closeBackend, err := persistence.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("storage init failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer func() {
		if err := closeBackend(); err != nil {
			zl.Warn("storage close failed", zap.Error(err))
		}
	}()

	ledger := repository.NewLedger(backend, zl)
	if seeded := ledger.Restore(ctx); len(seeded) > 0 {
		zl.Info("collections initialised from seed data", zap.Strings("collections", seeded))
	}

	dispatcher := notify.NewDispatcher(zl, notify.NewInboxSink(ledger, time.Now), notify.NewLogSink(zl))
	commerce := usecase.NewCommerceUseCase(ledger, dispatcher, zl, time.Now, usecase.Settings{
		DefaultVendorID: cfg.DefaultVendorID,
		Currency:        cfg.Currency,
		MinPayoutAmount: cfg.MinPayoutAmount,
	})

	reports := analytics.NewService(ledger, nil, time.Now)
	stats, err := reports.Stats(ctx, "", analytics.Last30Days)
	if err != nil {
		zl.Warn("stats unavailable", zap.Error(err))
	}
	zl.Info("ledger ready",
		zap.Int("courses", len(repository.Courses.All(ledger))),
		zap.Int64("sales_30d", stats.SalesCount),
		zap.Int64("revenue_30d", stats.TotalRevenue),
		zap.Int64("aov_30d", stats.AverageOrderValue),
		zap.Int("customers", len(reports.Customers(""))),
		zap.Int("coupons", len(commerce.Coupons())))

	for _, c := range reports.Campaigns() {
		fields := []zap.Field{zap.String("campaign", c.Name), zap.Int64("clicks", c.Clicks), zap.Int64("sales", c.Sales)}
		if c.ROAS != nil {
			fields = append(fields, zap.Float64("roas", *c.ROAS))
		}
		zl.Info("campaign", fields...)
	}

	if err := ledger.Flush(ctx); err != nil {
		zl.Warn("ledger has unsaved collections", zap.Strings("pending", ledger.Pending()), zap.Error(err))
	}
}
