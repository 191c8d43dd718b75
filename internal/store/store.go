// Package store keeps a history of tuner runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get for unknown run IDs.
var ErrNotFound = errors.New("store: run not found")

// Run is one processed file.
type Run struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Input      string
	Outputs    string
	Engine     string `gorm:"index:idx_run_engine"`
	SampleRate int
	Samples    int
	SourceF0   float64
	Confidence float64
	TargetF0   float64
	Ratio      float64
	Marks      int
	ElapsedMs  int64
	Error      string
	CreatedAt  time.Time `gorm:"index:idx_run_created"`
}

// Store is a handle on the history database.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db, sqlDB: sqlDB}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts r, assigning a new ID when r.ID is empty.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("recording run %v: %w", r.ID, err)
	}
	return nil
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %v: %w", id, err)
	}
	return &r, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	var runs []Run
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}
