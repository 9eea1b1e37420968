package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository accesses the persisted rate configuration.
type Repository interface {
	ListCategories(ctx context.Context, db *gorm.DB) ([]Category, error)
	LoadSettings(ctx context.Context, db *gorm.DB) (map[string]string, error)
	UpsertCategory(ctx context.Context, db *gorm.DB, category *Category) error
	UpsertSetting(ctx context.Context, db *gorm.DB, key, value string) error
}

// Service exposes admin rate configuration edits. Every successful edit
// invalidates the snapshot so the next calculation sees a new version.
type Service interface {
	ListCategories(ctx context.Context) ([]Category, error)
	UpdateCategory(ctx context.Context, key, name string, weightRate, volumeRate int64) error
	UpdateConstants(ctx context.Context, values map[string]string) error
}
