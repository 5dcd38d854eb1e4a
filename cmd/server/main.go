package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/config"
	"agrolink/internal/deliverypoint"
	"agrolink/internal/farmer"
	"agrolink/internal/infrastructure/logger"
	"agrolink/internal/infrastructure/redisx"
	"agrolink/internal/notification"
	"agrolink/internal/order"
	"agrolink/internal/order/usecase"
	"agrolink/internal/product"
	"agrolink/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "agrolink")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	st, err := openStores(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening store", zap.Error(err))
	}
	defer st.close()

	var idempotency usecase.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisx.New(ctx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer rdb.Close()
		idempotency = redisx.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL, cfg.Redis.PendingTTL)
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		zapLogger.Info("REDIS_ADDR not set, idempotency keys disabled")
	}

	sender, closeSender := newSender(cfg.Notification, zapLogger)
	defer closeSender()

	dispatcher := notification.NewDispatcher(sender, st.farmers, zapLogger, notification.Options{
		Workers:     cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
		SendTimeout: cfg.Notification.SendTimeout,
		MaxAttempts: cfg.Notification.MaxAttempts,
	})
	dispatcher.Start(ctx)

	orderCtrl := order.NewModule(order.Dependencies{
		TxManager:   st.txm,
		Products:    st.products,
		Orders:      st.orders,
		Points:      st.points,
		Notifier:    dispatcher,
		Idempotency: idempotency,
	}, cfg.Order, zapLogger)
	productCtrl := product.NewModule(st.txm, st.products, zapLogger, cfg.Order.ReservationTxTimeout)
	pointCtrl := deliverypoint.NewModule(st.points, zapLogger)
	farmerCtrl := farmer.NewModule(st.farmers, zapLogger)

	router := server.NewRouter(server.Controllers{
		Orders:         orderCtrl,
		Products:       productCtrl,
		DeliveryPoints: pointCtrl,
		Farmers:        farmerCtrl,
	}, cfg.Server.RequestTimeout, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		zapLogger.Warn("notification queue not drained", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
