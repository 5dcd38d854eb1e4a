package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables in creation order; drop order is the reverse.
var Tables = []string{"Farmers", "Product", "DeliveryPoints", "Orders", "OrderItems"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Farmers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(50) NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		bio TEXT NULL,
		website VARCHAR(255) NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS Product (
		id CHAR(36) NOT NULL PRIMARY KEY,
		farmerId CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT '',
		priceRange VARCHAR(100) NOT NULL DEFAULT '',
		harvestWindow VARCHAR(100) NOT NULL DEFAULT '',
		location VARCHAR(150) NOT NULL DEFAULT '',
		imageUrl VARCHAR(500),
		stock INT NOT NULL DEFAULT 0,
		availability VARCHAR(10) NOT NULL DEFAULT 'Low',
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME(3) NOT NULL,
		updatedAt DATETIME(3) NOT NULL,
		CHECK (stock >= 0),
		INDEX idx_farmer (farmerId)
	)`,
	`CREATE TABLE IF NOT EXISTS DeliveryPoints (
		id CHAR(36) NOT NULL PRIMARY KEY,
		farmerId CHAR(36) NOT NULL,
		name VARCHAR(150) NOT NULL,
		address VARCHAR(255) NOT NULL,
		zone VARCHAR(100) NOT NULL,
		latitude DOUBLE,
		longitude DOUBLE,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME(3) NOT NULL,
		updatedAt DATETIME(3) NOT NULL,
		INDEX idx_farmer (farmerId),
		INDEX idx_zone (zone)
	)`,
	`CREATE TABLE IF NOT EXISTS Orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		userId CHAR(36),
		customerName VARCHAR(150),
		customerEmail VARCHAR(150),
		customerPhone VARCHAR(30),
		deliverySlot VARCHAR(20) NOT NULL,
		logisticsMode VARCHAR(30) NOT NULL,
		deliveryPointId CHAR(36),
		notes TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		cancellationReason VARCHAR(500),
		cancellationViewed TINYINT(1) NOT NULL DEFAULT 0,
		totalItems INT NOT NULL,
		createdAt DATETIME(3) NOT NULL,
		updatedAt DATETIME(3) NOT NULL,
		INDEX idx_user (userId),
		INDEX idx_status (status)
	)`,
	`CREATE TABLE IF NOT EXISTS OrderItems (
		id CHAR(36) NOT NULL PRIMARY KEY,
		orderId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		farmerId CHAR(36) NOT NULL,
		productName VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		position INT NOT NULL,
		createdAt DATETIME(3) NOT NULL,
		CHECK (quantity > 0),
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId),
		INDEX idx_farmer (farmerId)
	)`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", Tables[i], err)
		}
	}
	return nil
}
