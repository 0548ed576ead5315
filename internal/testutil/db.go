// Package testutil backs storage tests with an in-memory sqlite database
// carrying the same schema and partial unique index as production.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barbershop-core/internal/db"
	"github.com/BruksfildServices01/barbershop-core/internal/models"
)

// NewDB returns a private database per test. The single connection makes
// sqlite behave like one serialized writer.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

type Shop struct {
	Barber  models.Barber
	Service models.Service
}

// SeedShop creates a barber working every day of the week with one service
// at price (minor units).
func SeedShop(t *testing.T, gdb *gorm.DB, open, close string, price int64) Shop {
	t.Helper()

	barber := models.Barber{ID: uuid.NewString(), Name: "Mario", SlotMinutes: 30}
	if err := gdb.Create(&barber).Error; err != nil {
		t.Fatalf("seed barber: %v", err)
	}

	for wd := 0; wd < 7; wd++ {
		wh := models.WorkingHours{
			BarberID:  barber.ID,
			Weekday:   wd,
			StartTime: open,
			EndTime:   close,
			Active:    true,
		}
		if err := gdb.Create(&wh).Error; err != nil {
			t.Fatalf("seed working hours: %v", err)
		}
	}

	svc := models.Service{
		ID:          uuid.NewString(),
		BarberID:    barber.ID,
		Name:        "Haircut",
		Price:       price,
		DurationMin: 30,
		Active:      true,
	}
	if err := gdb.Create(&svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	return Shop{Barber: barber, Service: svc}
}

// Manila is the business zone used across tests.
var Manila = time.FixedZone("PHT", 8*60*60)
