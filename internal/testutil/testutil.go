// Package testutil builds throwaway database and cache backends for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gridiron/internal/repositories"
	"gridiron/internal/repositories/cache"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)

	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewCache returns a CacheService backed by miniredis, plus the server so
// tests can inspect keys or fast-forward time.
func NewCache(t testing.TB) (*cache.CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := cache.NewCacheService(client, time.Hour)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}
