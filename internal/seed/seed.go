// Package seed populates the rate store on first boot so a fresh
// install can rate shipments immediately.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/parcelbay/parcelbay/internal/config"
	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	"github.com/parcelbay/parcelbay/pkg/repository"
	"gorm.io/gorm"
)

// EnsureDefaultRates inserts the configured default categories and
// constants when the respective tables are empty. Existing rows are
// never touched; admins own them after first boot.
func EnsureDefaultRates(conn *gorm.DB, defaults config.RatesConfig, genID *snowflake.Node) error {
	ctx := context.Background()
	now := time.Now().UTC()

	categoryStore := repository.ProvideStore[ratetabledomain.Category](conn)
	categoryCount, err := categoryStore.Count(ctx, &ratetabledomain.Category{})
	if err != nil {
		return err
	}
	if categoryCount == 0 {
		categories := make([]*ratetabledomain.Category, 0, len(defaults.Categories))
		for _, c := range defaults.Categories {
			categories = append(categories, &ratetabledomain.Category{
				ID:         genID.Generate(),
				Key:        c.Key,
				Name:       c.Name,
				WeightRate: c.WeightRate,
				VolumeRate: c.VolumeRate,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		if err := categoryStore.BatchCreate(ctx, categories); err != nil {
			return err
		}
	}

	settingStore := repository.ProvideStore[ratetabledomain.Setting](conn)
	settingCount, err := settingStore.Count(ctx, &ratetabledomain.Setting{})
	if err != nil {
		return err
	}
	if settingCount == 0 {
		settings := []*ratetabledomain.Setting{
			{Key: ratetabledomain.SettingVolumeDivisor, Value: formatFloat(defaults.VolumeDivisor), UpdatedAt: now},
			{Key: ratetabledomain.SettingCbmToCaiFactor, Value: formatFloat(defaults.CbmToCaiFactor), UpdatedAt: now},
			{Key: ratetabledomain.SettingMinimumCharge, Value: formatInt(defaults.MinimumCharge), UpdatedAt: now},
			{Key: ratetabledomain.SettingOversizedLimitCm, Value: formatFloat(defaults.OversizedLimitCm), UpdatedAt: now},
			{Key: ratetabledomain.SettingOversizedFee, Value: formatInt(defaults.OversizedFee), UpdatedAt: now},
			{Key: ratetabledomain.SettingOverweightLimitKg, Value: formatFloat(defaults.OverweightLimitKg), UpdatedAt: now},
			{Key: ratetabledomain.SettingOverweightFee, Value: formatInt(defaults.OverweightFee), UpdatedAt: now},
		}
		if err := settingStore.BatchCreate(ctx, settings); err != nil {
			return err
		}
	}

	return nil
}
