package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RatesConfig holds the tunable rating constants used to seed the rate
// settings store and as fallback for missing keys. Amounts are integer
// TWD, dimensions in cm, weights in kg.
type RatesConfig struct {
	VolumeDivisor     float64 `mapstructure:"volumeDivisor"`
	CbmToCaiFactor    float64 `mapstructure:"cbmToCaiFactor"`
	MinimumCharge     int64   `mapstructure:"minimumCharge"`
	OversizedLimitCm  float64 `mapstructure:"oversizedLimitCm"`
	OversizedFee      int64   `mapstructure:"oversizedFee"`
	OverweightLimitKg float64 `mapstructure:"overweightLimitKg"`
	OverweightFee     int64   `mapstructure:"overweightFee"`

	Categories []RateCategoryConfig `mapstructure:"categories"`
}

type RateCategoryConfig struct {
	Key        string `mapstructure:"key"`
	Name       string `mapstructure:"name"`
	WeightRate int64  `mapstructure:"weightRate"`
	VolumeRate int64  `mapstructure:"volumeRate"`
}

func DefaultRatesConfig() RatesConfig {
	return RatesConfig{
		VolumeDivisor:     6000,
		CbmToCaiFactor:    35.3,
		MinimumCharge:     2000,
		OversizedLimitCm:  150,
		OversizedFee:      800,
		OverweightLimitKg: 100,
		OverweightFee:     800,
		Categories: []RateCategoryConfig{
			{Key: "general", Name: "General goods", WeightRate: 20, VolumeRate: 10},
		},
	}
}

type RatesConfigHolder struct {
	current atomic.Value // holds RatesConfig
}

// NewStaticRatesConfigHolder wraps a fixed config with no file watching.
func NewStaticRatesConfigHolder(cfg RatesConfig) *RatesConfigHolder {
	holder := &RatesConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewRatesConfigHolder loads rate defaults from rates.yml with hot reload.
// Missing file falls back to built-in defaults.
func NewRatesConfigHolder() (*RatesConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("rates")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/parcelbay/config")
	v.AddConfigPath("/etc/parcelbay")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PARCELBAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRatesConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		v.SetDefault("rates.volumeDivisor", defaults.VolumeDivisor)
		v.SetDefault("rates.cbmToCaiFactor", defaults.CbmToCaiFactor)
		v.SetDefault("rates.minimumCharge", defaults.MinimumCharge)
		v.SetDefault("rates.oversizedLimitCm", defaults.OversizedLimitCm)
		v.SetDefault("rates.oversizedFee", defaults.OversizedFee)
		v.SetDefault("rates.overweightLimitKg", defaults.OverweightLimitKg)
		v.SetDefault("rates.overweightFee", defaults.OverweightFee)
		v.SetDefault("rates.categories", defaults.Categories)
	}

	var cfg RatesConfig
	if err := v.UnmarshalKey("rates", &cfg); err != nil {
		return nil, err
	}
	if err := validateRatesConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RatesConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RatesConfig
		if err := v.UnmarshalKey("rates", &updated); err != nil {
			log.Printf("[rates-config] reload failed: %v", err)
			return
		}
		if err := validateRatesConfig(updated); err != nil {
			log.Printf("[rates-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[rates-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *RatesConfigHolder) Get() RatesConfig {
	return h.current.Load().(RatesConfig)
}

func validateRatesConfig(cfg RatesConfig) error {
	if cfg.VolumeDivisor <= 0 {
		return errors.New("rates.volumeDivisor must be positive")
	}
	if cfg.CbmToCaiFactor <= 0 {
		return errors.New("rates.cbmToCaiFactor must be positive")
	}
	if cfg.MinimumCharge < 0 || cfg.OversizedFee < 0 || cfg.OverweightFee < 0 {
		return errors.New("rates fees cannot be negative")
	}
	return nil
}
