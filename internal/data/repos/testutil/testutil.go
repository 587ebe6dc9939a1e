package testutil

import (
	"errors"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbsvc "github.com/yungbote/partvault-backend/internal/data/db"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
)

var errMissingDSN = errors.New("TEST_POSTGRES_DSN not set")

// Logger returns a dev-mode logger for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("dev")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	return log
}

// DB opens the test database named by TEST_POSTGRES_DSN and runs
// migrations for every model the part engine touches. Tests that need a
// real database are skipped when the variable is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skipf("skipping: %v", errMissingDSN)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		tb.Fatalf("uuid-ossp extension: %v", err)
	}
	if err := dbsvc.AutoMigrateAll(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	if err := dbsvc.EnsurePartIndexes(db); err != nil {
		tb.Fatalf("ensure indexes: %v", err)
	}
	return db
}

// Tx begins a transaction that is rolled back in cleanup, so each test
// leaves the database as it found it.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}
