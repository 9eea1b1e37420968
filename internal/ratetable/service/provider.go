package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/parcelbay/parcelbay/internal/ratetable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider caches the rate snapshot process-wide. The snapshot is
// replaced, never mutated, so concurrent readers need no locking; the
// mutex only serializes reloads.
type Provider struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	defaults *config.RatesConfigHolder

	mu       sync.Mutex
	snapshot atomic.Pointer[domain.Table]
	version  atomic.Int64
}

type ProviderParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Defaults *config.RatesConfigHolder
}

func NewProvider(p ProviderParams) domain.Provider {
	return &Provider{
		db:       p.DB,
		log:      p.Log.Named("ratetable.provider"),
		repo:     p.Repo,
		defaults: p.Defaults,
	}
}

func (p *Provider) Get(ctx context.Context) (*domain.Table, error) {
	if table := p.snapshot.Load(); table != nil {
		return table, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if table := p.snapshot.Load(); table != nil {
		return table, nil
	}

	table, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.snapshot.Store(table)
	p.log.Info("rate table loaded",
		zap.Int64("version", table.Version),
		zap.Int("categories", len(table.Categories)),
	)
	return table, nil
}

func (p *Provider) Invalidate() {
	p.snapshot.Store(nil)
}

func (p *Provider) load(ctx context.Context) (*domain.Table, error) {
	defaults := p.defaults.Get()

	rows, err := p.repo.ListCategories(ctx, p.db)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]domain.CategoryRate, len(rows))
	for _, row := range rows {
		categories[row.Key] = domain.CategoryRate{
			Key:        row.Key,
			Name:       row.Name,
			WeightRate: row.WeightRate,
			VolumeRate: row.VolumeRate,
		}
	}
	if len(categories) == 0 {
		for _, c := range defaults.Categories {
			categories[c.Key] = domain.CategoryRate{
				Key:        c.Key,
				Name:       c.Name,
				WeightRate: c.WeightRate,
				VolumeRate: c.VolumeRate,
			}
		}
	}

	settings, err := p.repo.LoadSettings(ctx, p.db)
	if err != nil {
		return nil, err
	}

	constants := domain.Constants{
		VolumeDivisor:     settingFloat(settings, domain.SettingVolumeDivisor, defaults.VolumeDivisor),
		CbmToCaiFactor:    settingFloat(settings, domain.SettingCbmToCaiFactor, defaults.CbmToCaiFactor),
		MinimumCharge:     settingInt(settings, domain.SettingMinimumCharge, defaults.MinimumCharge),
		OversizedLimitCm:  settingFloat(settings, domain.SettingOversizedLimitCm, defaults.OversizedLimitCm),
		OversizedFee:      settingInt(settings, domain.SettingOversizedFee, defaults.OversizedFee),
		OverweightLimitKg: settingFloat(settings, domain.SettingOverweightLimitKg, defaults.OverweightLimitKg),
		OverweightFee:     settingInt(settings, domain.SettingOverweightFee, defaults.OverweightFee),
	}
	if constants.VolumeDivisor <= 0 || constants.CbmToCaiFactor <= 0 {
		return nil, domain.ErrInvalidSetting
	}

	return &domain.Table{
		Version:    p.version.Add(1),
		Categories: categories,
		Constants:  constants,
		LoadedAt:   time.Now().UTC(),
	}, nil
}

func settingFloat(settings map[string]string, key string, def float64) float64 {
	raw, ok := settings[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return parsed
}

func settingInt(settings map[string]string, key string, def int64) int64 {
	raw, ok := settings[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
