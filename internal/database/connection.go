// Package database provides database connection and migration utilities.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/oszuidwest/zwfm-directviewer/internal/config"
)

// Connect opens the configured database and verifies connectivity.
// MySQL connections get a pooled setup; SQLite is limited to a single writer.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// dataSource maps the configuration to a driver name and DSN.
func dataSource(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.Database
		mc.ParseTime = true
		return "mysql", mc.FormatDSN(), nil
	case config.DriverSQLite:
		return "sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", cfg.Path), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
