package service

import (
	"testing"
	"time"

	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testTable() *ratetabledomain.Table {
	return &ratetabledomain.Table{
		Version: 1,
		Categories: map[string]ratetabledomain.CategoryRate{
			"general": {Key: "general", Name: "General goods", WeightRate: 20, VolumeRate: 10},
			"fragile": {Key: "fragile", Name: "Fragile", WeightRate: 30, VolumeRate: 15},
		},
		Constants: ratetabledomain.Constants{
			VolumeDivisor:     6000,
			CbmToCaiFactor:    35.3,
			MinimumCharge:     2000,
			OversizedLimitCm:  150,
			OversizedFee:      800,
			OverweightLimitKg: 100,
			OverweightFee:     800,
		},
		LoadedAt: time.Now().UTC(),
	}
}

func testCalculator() *Calculator {
	return &Calculator{log: zap.NewNop()}
}

func TestRateBoxWeightWins(t *testing.T) {
	calc := testCalculator()

	// 60*60*60/6000 = 36 units -> 360 by volume; 30.2kg * 20 = 604 by weight.
	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg: 30.2,
	}, testTable())

	assert.Equal(t, int64(36), rated.VolumetricUnits)
	assert.Equal(t, int64(360), rated.VolumeFee)
	assert.Equal(t, int64(604), rated.WeightFee)
	assert.Equal(t, int64(604), rated.Fee)
	assert.Equal(t, ratingdomain.MethodWeight, rated.Method)
	assert.False(t, rated.Oversized)
	assert.False(t, rated.Overweight)
}

func TestRateBoxVolumeWins(t *testing.T) {
	calc := testCalculator()

	// 100*100*60/6000 = 100 units -> 1000 by volume; 2kg * 20 = 40 by weight.
	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    100, WidthCm: 100, HeightCm: 60,
		WeightKg: 2,
	}, testTable())

	assert.Equal(t, int64(1000), rated.Fee)
	assert.Equal(t, ratingdomain.MethodVolume, rated.Method)
}

func TestRateBoxTieResolvesToVolume(t *testing.T) {
	calc := testCalculator()

	// 36 units * 10 = 360 by volume; 18kg * 20 = 360 by weight.
	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg: 18,
	}, testTable())

	assert.Equal(t, rated.VolumeFee, rated.WeightFee)
	assert.Equal(t, ratingdomain.MethodVolume, rated.Method)
}

func TestRateBoxVolumetricUnitsRoundUp(t *testing.T) {
	calc := testCalculator()

	// 50*50*50/6000 = 20.83 -> 21 units.
	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    50, WidthCm: 50, HeightCm: 50,
		WeightKg: 1,
	}, testTable())

	assert.Equal(t, int64(21), rated.VolumetricUnits)
}

func TestRateBoxUnknownCategoryFallsBackToGeneral(t *testing.T) {
	calc := testCalculator()

	known := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg: 30.2,
	}, testTable())
	unknown := calc.RateBox(ratingdomain.Box{
		CategoryKey: "does-not-exist",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg: 30.2,
	}, testTable())

	assert.Equal(t, known.Fee, unknown.Fee)
	assert.Equal(t, known.Method, unknown.Method)
}

func TestRateBoxNoCategoriesDegradesToZero(t *testing.T) {
	calc := testCalculator()
	table := testTable()
	table.Categories = map[string]ratetabledomain.CategoryRate{}

	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    60, WidthCm: 60, HeightCm: 60,
		WeightKg: 30.2,
	}, table)

	assert.Equal(t, int64(0), rated.Fee)
	assert.Equal(t, int64(36), rated.VolumetricUnits)
}

func TestRateBoxOversizedBoundary(t *testing.T) {
	calc := testCalculator()

	atLimit := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    150, WidthCm: 10, HeightCm: 10,
		WeightKg: 1,
	}, testTable())
	underLimit := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    149.9, WidthCm: 10, HeightCm: 10,
		WeightKg: 1,
	}, testTable())

	assert.True(t, atLimit.Oversized)
	assert.False(t, underLimit.Oversized)
}

func TestRateBoxOverweightUsesRoundedWeight(t *testing.T) {
	calc := testCalculator()

	// 99.91kg rounds up to 100.0 which hits the limit.
	rated := calc.RateBox(ratingdomain.Box{
		CategoryKey: "general",
		LengthCm:    10, WidthCm: 10, HeightCm: 10,
		WeightKg: 99.91,
	}, testTable())

	assert.Equal(t, 100.0, rated.RoundedWeightKg)
	assert.True(t, rated.Overweight)
}

func TestCeilWeight(t *testing.T) {
	assert.Equal(t, 30.2, CeilWeight(30.2))
	assert.Equal(t, 30.2, CeilWeight(30.11))
	assert.Equal(t, 30.0, CeilWeight(30.0))
	assert.Equal(t, 0.1, CeilWeight(0.01))
}
