package database

import (
	"context"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open conecta a Postgres con el logger de gorm sobre zap.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel)),
		TranslateError: true,
		NowFunc:        func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo conectar a la base de datos")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener la conexión")
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "la base de datos no responde")
	}

	log.Info("conexión a base de datos lista")
	return db, nil
}

// Migrate crea o actualiza todas las tablas del libro.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return errors.Wrap(err, "AutoMigrate falló")
	}
	log.Info("migración completada", zap.Int("tablas", len(models.AllModels())))
	return nil
}
