package database

import (
	"context"
	"fmt"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/config"
	"github.com/4lovek5346534/git-Supreme-Cofe/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// InitDB opens the PostgreSQL connection and migrates the relational models
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var err error
	log := logger.GetLogger()

	logLevel := cfg.DB.LogLevel
	if cfg.Server.Env == "development" && logLevel < gormlogger.Info {
		logLevel = gormlogger.Info
	}

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Error("Failed to get database object", zap.Error(err))
		return nil, err
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	log.Info("Database connected successfully", zap.String("db_name", cfg.DB.DBName))

	if err := MigrateModels(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.User{},
	); err != nil {
		return nil, err
	}

	return DB, nil
}

// MigrateModels runs migrations for the provided models
func MigrateModels(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Ping checks that the relational database answers
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
