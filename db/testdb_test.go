package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens a fresh in-memory database per test. A single
// connection keeps the shared-cache database alive and serializes writers.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
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

	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(gdb)
}

func seedItem(t *testing.T, r *Repo, name string) *models.Item {
	t.Helper()
	it, err := r.CreateItem(context.Background(), "seeder", CreateItemInput{
		Name:     name,
		Category: "Tools",
		Location: "Storage",
	})
	if err != nil {
		t.Fatalf("seed item %q: %v", name, err)
	}
	return it
}

func countRows(t *testing.T, r *Repo, model any) int64 {
	t.Helper()
	var n int64
	if err := r.DB.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func reloadItem(t *testing.T, r *Repo, id string) *models.Item {
	t.Helper()
	it, err := r.FindItemByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	return it
}
