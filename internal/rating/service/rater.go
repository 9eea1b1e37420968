package service

import (
	"math"

	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Calculator rates boxes and aggregates shipment cost breakdowns. All
// methods are deterministic for a given rate table snapshot; the only
// side effect is a warning log on unknown categories.
type Calculator struct {
	log *zap.Logger
}

type Params struct {
	fx.In

	Log *zap.Logger
}

func NewCalculator(p Params) *Calculator {
	return &Calculator{
		log: p.Log.Named("rating.calculator"),
	}
}

// RateBox prices a single measured box against the snapshot. The box
// must already be validated; see ratingdomain.Box.Validate.
func (c *Calculator) RateBox(box ratingdomain.Box, table *ratetabledomain.Table) ratingdomain.BoxRating {
	rate, ok := table.Rate(box.CategoryKey)
	if !ok {
		rate, ok = table.Rate(ratetabledomain.GeneralCategoryKey)
		if !ok {
			// Never fail the whole calculation for an unknown category.
			rate = ratetabledomain.CategoryRate{Key: box.CategoryKey}
		}
		c.log.Warn("unknown rate category, degrading",
			zap.String("category", box.CategoryKey),
			zap.String("fallback", rate.Key),
		)
	}

	constants := table.Constants

	volumetricUnits := int64(math.Ceil(box.LengthCm * box.WidthCm * box.HeightCm / constants.VolumeDivisor))
	roundedWeight := CeilWeight(box.WeightKg)

	volumeFee := volumetricUnits * rate.VolumeRate
	weightFee := roundMoney(roundedWeight * float64(rate.WeightRate))

	fee := volumeFee
	method := ratingdomain.MethodVolume
	if weightFee > volumeFee {
		fee = weightFee
		method = ratingdomain.MethodWeight
	}

	oversized := box.LengthCm >= constants.OversizedLimitCm ||
		box.WidthCm >= constants.OversizedLimitCm ||
		box.HeightCm >= constants.OversizedLimitCm
	overweight := roundedWeight >= constants.OverweightLimitKg

	return ratingdomain.BoxRating{
		Fee:             fee,
		Method:          method,
		VolumetricUnits: volumetricUnits,
		RoundedWeightKg: roundedWeight,
		VolumeFee:       volumeFee,
		WeightFee:       weightFee,
		Oversized:       oversized,
		Overweight:      overweight,
	}
}

// CeilWeight rounds a weight up to one decimal, the granularity the
// warehouse scales record.
func CeilWeight(weightKg float64) float64 {
	return math.Ceil(weightKg*10) / 10
}

// roundMoney rounds half up to an integer currency amount.
func roundMoney(raw float64) int64 {
	return int64(math.Floor(raw + 0.5))
}
