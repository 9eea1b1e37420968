// Package domain contains the rate configuration snapshot consumed by
// the rating engine.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category is a persisted category rate row, editable by admins.
type Category struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Key        string       `gorm:"type:text;not null;uniqueIndex"`
	Name       string       `gorm:"type:text;not null"`
	WeightRate int64        `gorm:"not null"` // TWD per kg
	VolumeRate int64        `gorm:"not null"` // TWD per cai
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Category) TableName() string { return "rate_categories" }

// Setting is a persisted rating constant, keyed by name.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Setting) TableName() string { return "rate_settings" }

// Setting keys recognized by the snapshot loader.
const (
	SettingVolumeDivisor     = "volume_divisor"
	SettingCbmToCaiFactor    = "cbm_to_cai_factor"
	SettingMinimumCharge     = "minimum_charge"
	SettingOversizedLimitCm  = "oversized_limit_cm"
	SettingOversizedFee      = "oversized_fee"
	SettingOverweightLimitKg = "overweight_limit_kg"
	SettingOverweightFee     = "overweight_fee"
)

// GeneralCategoryKey is the fallback category for unknown keys.
const GeneralCategoryKey = "general"

// CategoryRate is the in-memory rate entry for one category.
type CategoryRate struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	WeightRate int64  `json:"weight_rate"`
	VolumeRate int64  `json:"volume_rate"`
}

// Constants are the tunable rating knobs, fixed for a snapshot version.
type Constants struct {
	VolumeDivisor     float64 `json:"volume_divisor"`
	CbmToCaiFactor    float64 `json:"cbm_to_cai_factor"`
	MinimumCharge     int64   `json:"minimum_charge"`
	OversizedLimitCm  float64 `json:"oversized_limit_cm"`
	OversizedFee      int64   `json:"oversized_fee"`
	OverweightLimitKg float64 `json:"overweight_limit_kg"`
	OverweightFee     int64   `json:"overweight_fee"`
}

// Table is an immutable rate snapshot. A calculation captures one Table
// and uses it for its whole run; invalidation produces a new Table with
// a higher Version rather than mutating this one.
type Table struct {
	Version    int64                   `json:"version"`
	Categories map[string]CategoryRate `json:"categories"`
	Constants  Constants               `json:"constants"`
	LoadedAt   time.Time               `json:"loaded_at"`
}

// Rate returns the rate entry for key with no fallback applied.
func (t *Table) Rate(key string) (CategoryRate, bool) {
	rate, ok := t.Categories[key]
	return rate, ok
}

// Provider hands out the current rate snapshot.
type Provider interface {
	// Get returns the current snapshot, loading it on first use.
	Get(ctx context.Context) (*Table, error)
	// Invalidate drops the cached snapshot so the next Get reloads.
	Invalidate()
}

var (
	ErrInvalidSetting  = errors.New("invalid_rate_setting")
	ErrInvalidCategory = errors.New("invalid_rate_category")
)
