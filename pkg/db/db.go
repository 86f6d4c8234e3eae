package db

import (
	"time"

	"github.com/smallbiznis/paydocs/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open builds the gorm handle with tracing and metrics plugins registered.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialect, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin()); err != nil {
		return nil, err
	}

	if cfg.DBType == "postgres" || cfg.DBType == "mysql" {
		if err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          cfg.DBName,
			RefreshInterval: 15,
		})); err != nil {
			return nil, err
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	maxIdle := cfg.DBMaxIdleConn
	if maxIdle == 0 {
		maxIdle = 5
	}
	maxOpen := cfg.DBMaxOpenConn
	if maxOpen == 0 {
		maxOpen = 25
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)

	log.Info("database connected", zap.String("type", cfg.DBType), zap.String("name", cfg.DBName))

	return conn, nil
}
