package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"study-sync/studysync/config"
)

type Database struct {
	DB *gorm.DB
}

// ServerNow is the store clock. Timestamps are truncated to microseconds,
// the finest resolution postgres keeps.
func ServerNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBSQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func Setup(cfg config.Config) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		Logger:                 NewGormLogger(log.Logger, logLevel),
		NowFunc:                ServerNow,
		PrepareStmt:            true,
		AllowGlobalUpdate:      false,
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	if strings.EqualFold(cfg.DBDriver, "sqlite") {
		// sqlite allows a single writer; the idle connection keeps in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database ready")

	return &Database{DB: db}, nil
}

// Now returns the store's current time as used for server-assigned timestamps.
func (d *Database) Now() time.Time {
	if d.DB != nil && d.DB.Config != nil && d.DB.NowFunc != nil {
		return d.DB.NowFunc()
	}
	return ServerNow()
}

func (d *Database) Close() {
	if d.DB == nil {
		log.Warn().Msg("database connection is nil, nothing to close")
		return
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Error().Err(err).Msg("failed to get database connection")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database connection")
	}
}
