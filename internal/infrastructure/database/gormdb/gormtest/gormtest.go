// Package gormtest provides an isolated in-memory SQLite database for tests.
package gormtest

import (
	"fmt"
	"strings"
	"testing"

	"medreminder/internal/infrastructure/database/gormdb"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory database private to t. The shared cache keeps every
// pooled connection on the same database, which sessions pinning their own connection rely on.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gormdb.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = gormdb.CloseDB(db)
	})
	return db
}
