package repository

import (
	"context"
	"time"

	"github.com/parcelbay/parcelbay/internal/ratetable/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Order("key asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) LoadSettings(ctx context.Context, db *gorm.DB) (map[string]string, error) {
	var rows []domain.Setting
	err := db.WithContext(ctx).Model(&domain.Setting{}).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

func (r *repo) UpsertCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	now := time.Now().UTC()
	result := db.WithContext(ctx).Exec(
		`UPDATE rate_categories SET name = ?, weight_rate = ?, volume_rate = ?, updated_at = ? WHERE key = ?`,
		category.Name,
		category.WeightRate,
		category.VolumeRate,
		now,
		category.Key,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) UpsertSetting(ctx context.Context, db *gorm.DB, key, value string) error {
	now := time.Now().UTC()
	result := db.WithContext(ctx).Exec(
		`UPDATE rate_settings SET value = ?, updated_at = ? WHERE key = ?`,
		value,
		now,
		key,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&domain.Setting{Key: key, Value: value, UpdatedAt: now}).Error
}
