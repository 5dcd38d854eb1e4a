package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"agrolink/internal/config"
	"agrolink/internal/deliverypoint"
	"agrolink/internal/farmer"
	"agrolink/internal/infrastructure/memory"
	"agrolink/internal/infrastructure/mysql"
	"agrolink/internal/notification"
	orderrepo "agrolink/internal/order/repository"
	orderservice "agrolink/internal/order/service"
	"agrolink/internal/product"
	productrepo "agrolink/internal/product/repository"
	"agrolink/internal/storage"
)

type productStore interface {
	product.Store
	orderservice.ProductRepository
}

type stores struct {
	txm      storage.TransactionManager
	products productStore
	orders   orderservice.OrderRepository
	points   deliverypoint.Repository
	farmers  farmer.Repository
	close    func()
}

func openStores(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*stores, error) {
	if cfg.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			txm:      store,
			products: memory.NewProductRepository(store),
			orders:   memory.NewOrderRepository(store),
			points:   memory.NewDeliveryPointRepository(store),
			farmers:  memory.NewFarmerRepository(store),
			close:    func() {},
		}, nil
	}

	db, err := mysql.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", zap.String("host", cfg.Host), zap.String("name", cfg.Name))

	if cfg.AutoMigrate {
		if err := mysql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
		logger.Info("schema migrated")
	}

	return &stores{
		txm:      mysql.NewTxManager(db),
		products: productrepo.NewMySQLRepository(db),
		orders:   orderrepo.NewMySQLOrderRepository(db),
		points:   deliverypoint.NewMySQLRepository(db),
		farmers:  farmer.NewMySQLRepository(db),
		close: func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database", zap.Error(err))
			}
		},
	}, nil
}

func newSender(cfg config.NotificationConfig, logger *zap.Logger) (notification.Sender, func()) {
	switch cfg.Driver {
	case config.NotifyDriverEmail:
		logger.Info("notifications via email API", zap.String("url", cfg.Email.APIURL))
		client := &http.Client{Timeout: cfg.SendTimeout}
		return notification.NewEmailSender(client, cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From), func() {}
	case config.NotifyDriverKafka:
		logger.Info("notifications via kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
		sender := notification.NewKafkaSender(notification.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		return sender, func() {
			if err := sender.Close(); err != nil {
				logger.Warn("closing kafka writer", zap.Error(err))
			}
		}
	default:
		return notification.NewLogSender(logger), func() {}
	}
}
