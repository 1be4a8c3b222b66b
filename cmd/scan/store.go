package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// RunSummary is one row of the scan-run audit log: metadata about a single
// invocation of this command, never the fingerprint index itself, which
// this module deliberately does not persist across runs.
type RunSummary struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	RunID        string
	Directory    string
	FilesScanned int
	FilesFailed  int
	GroupsFound  int
	DurationMs   int64
	TotalBytes   int64
	CreatedAt    time.Time
}

// auditStore wraps a gorm handle over a pure-Go sqlite driver, scoped to a
// single RunSummary table.
type auditStore struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func openAuditStore(path string) (*auditStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit log dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)

	if err := db.AutoMigrate(&RunSummary{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &auditStore{db: db, sqlDB: sqlDB}, nil
}

func (s *auditStore) RecordRun(r RunSummary) error {
	r.CreatedAt = time.Now()
	return s.db.Create(&r).Error
}

func (s *auditStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
