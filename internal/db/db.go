package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barbershop-core/internal/config"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

// activeSlotIndex is the storage backstop for one active booking per slot.
// Cancelled bookings stay in the table for audit but release the slot.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_active_slot
	ON bookings (barber_id, date, start_time)
	WHERE status <> 'cancelled'
`

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		zap.L().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		zap.L().Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate is shared by the service and the storage-backed tests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Barber{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Booking{},
		&models.BookingPayment{},
		&models.Request{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	return db.Exec(activeSlotIndex).Error
}
