package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps keys as rows of client_state_entries (postgres or sqlite)
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store over an open gorm connection
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry domain.ClientStateEntry
	err := s.db.WithContext(ctx).Where("state_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return []byte(entry.Value), nil
}

// Set inserts or replaces the row for key in one statement
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	entry := domain.ClientStateEntry{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Where("state_key = ?", key).Delete(&domain.ClientStateEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
