package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is the GORM row backing one namespace key.
type Blob struct {
	Key   string `gorm:"primaryKey;type:varchar(100)"`
	Value []byte
}

// TableName keeps every namespace under a single stable table.
func (Blob) TableName() string {
	return "undian_blobs"
}

// GormBackend persists blobs through GORM so the same code runs on SQLite
// locally and PostgreSQL in deployment.
type GormBackend struct {
	db *gorm.DB
}

// Open connects with the requested driver ("sqlite" or "postgres") and
// migrates the blob table.
func Open(driver, dsn string) (*GormBackend, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormBackend(db)
}

// NewGormBackend wraps an existing GORM connection, migrating the blob table.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blob table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

// Get returns the blob for key, or (nil, nil) when no row exists.
func (b *GormBackend) Get(key string) ([]byte, error) {
	var blob Blob
	if err := b.db.First(&blob, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return blob.Value, nil
}

// Put inserts or replaces the blob for key.
func (b *GormBackend) Put(key string, value []byte) error {
	blob := Blob{Key: key, Value: value}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob for key. Deleting an absent key is not an error.
func (b *GormBackend) Delete(key string) error {
	if err := b.db.Delete(&Blob{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
