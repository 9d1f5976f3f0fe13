package migration

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestUpDownUp(t *testing.T) {
	db := openTestDB(t)

	if err := Up(db); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := Up(db); err != nil {
		t.Fatalf("second Up should be a no-op: %v", err)
	}
	version, dirty, err := Version(db)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d dirty = %v, want 1 false", version, dirty)
	}
	if !db.Migrator().HasTable("users") {
		t.Fatal("expected users table")
	}

	if err := Down(db); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if db.Migrator().HasTable("users") {
		t.Error("expected users table to be dropped")
	}
	if err := Up(db); err != nil {
		t.Fatalf("Up after Down: %v", err)
	}
}
