// db/db.go
package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stationgate/api/config"
	logger "github.com/stationgate/api/logging"
	"github.com/stationgate/api/model"
)

var DB *gorm.DB

// InitDB opens the relational store behind the DAO boundary. The driver is
// configurable; sqlite (pure Go) backs development and tests, mysql/postgres
// back deployments.
func InitDB() error {
	driver := config.GetString("db.driver")
	dsn := config.GetString("db.dsn")

	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	logger.Info("Connecting to database", zap.String("driver", driver))

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true, // surface duplicate-key violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := conn.AutoMigrate(&model.Station{}, &model.ModulePermission{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	DB = conn
	logger.Info("Successfully connected to database")
	return nil
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error("Error resolving sql.DB on close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	} else {
		logger.Info("Database connection closed successfully")
	}
}
