package db

import (
	"fmt"
	"time"

	"udyam-verification/internal/domain/audit"
	"udyam-verification/internal/domain/otp"
	"udyam-verification/internal/domain/pan"
	"udyam-verification/internal/domain/submission"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for name (sqlite, mysql or postgres).
func Dialector(name, dsn string) (gorm.Dialector, error) {
	switch name {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", name)
}

func OpenGorm(driver, dsn string, debug bool, log *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	gdb, err := openGorm(dial, level)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// sqlite allows one writer
		sqlDB, _ := gdb.DB()
		sqlDB.SetMaxOpenConns(1)
	}
	if log != nil {
		log.Info("gorm: connected", zap.String("driver", driver))
	}
	return gdb, nil
}

// OpenGormWithDialector opens and pings using an already built dialector.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	return openGorm(dial, logger.Silent)
}

func openGorm(dial gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(level),
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true,
	}
	gdb, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Models lists every persisted table in migration order.
func Models() []any {
	return []any{&otp.Log{}, &pan.Verification{}, &submission.FormSubmission{}, &audit.Log{}}
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
