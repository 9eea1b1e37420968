package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/ratetable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service applies admin rate edits and invalidates the snapshot.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	provider domain.Provider
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Provider domain.Provider
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("ratetable.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		provider: p.Provider,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx, s.db)
}

func (s *Service) UpdateCategory(ctx context.Context, key, name string, weightRate, volumeRate int64) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || weightRate < 0 || volumeRate < 0 {
		return domain.ErrInvalidCategory
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = key
	}

	err := s.repo.UpsertCategory(ctx, s.db, &domain.Category{
		ID:         s.genID.Generate(),
		Key:        key,
		Name:       name,
		WeightRate: weightRate,
		VolumeRate: volumeRate,
	})
	if err != nil {
		return err
	}

	s.provider.Invalidate()
	s.log.Info("rate category updated", zap.String("key", key))
	return nil
}

func (s *Service) UpdateConstants(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return domain.ErrInvalidSetting
	}

	known := map[string]bool{
		domain.SettingVolumeDivisor:     true,
		domain.SettingCbmToCaiFactor:    true,
		domain.SettingMinimumCharge:     true,
		domain.SettingOversizedLimitCm:  true,
		domain.SettingOversizedFee:      true,
		domain.SettingOverweightLimitKg: true,
		domain.SettingOverweightFee:     true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if !known[key] || value == "" {
				return domain.ErrInvalidSetting
			}
			if err := s.repo.UpsertSetting(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.provider.Invalidate()
	s.log.Info("rate constants updated", zap.Int("keys", len(values)))
	return nil
}
