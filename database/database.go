package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newGormConfig is the single place gorm behavior is configured. TranslateError
// maps driver errors to gorm's portable sentinels; the services rely on
// gorm.ErrDuplicatedKey to report conflicts.
func newGormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// NewDatabase opens the Postgres connection used by every repository.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Port)

	db, err := gorm.Open(postgres.Open(dsn), newGormConfig())
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("Database connected")
	return db, nil
}
