package mysql

import (
	"context"
	"database/sql"
	"fmt"

	drv "github.com/go-sql-driver/mysql"

	"agrolink/internal/config"
	"agrolink/internal/storage"
)

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := drv.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dsn.DBName = cfg.Name
	dsn.ParseTime = true
	dsn.MultiStatements = false

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// TxManager opens RepeatableRead transactions so that rows locked with
// SELECT ... FOR UPDATE stay consistent until commit.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, Classify(fmt.Errorf("beginning transaction: %w", err))
	}
	return tx, nil
}
