package service

import (
	"fmt"

	ratetabledomain "github.com/parcelbay/parcelbay/internal/ratetable/domain"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
)

// Calculate aggregates box ratings across packages into a full cost
// breakdown. It is invoked both for non-committing previews and as the
// authoritative value at commit time; identical inputs with the same
// snapshot yield identical breakdowns.
func (c *Calculator) Calculate(
	packages []ratingdomain.PackageInput,
	table *ratetabledomain.Table,
	deliveryRate int64,
) (ratingdomain.CostBreakdown, error) {
	if deliveryRate < 0 {
		return ratingdomain.CostBreakdown{}, ratingdomain.ErrInvalidDeliveryRate
	}

	breakdown := ratingdomain.CostBreakdown{
		RateVersion: table.Version,
		Lines:       make([]ratingdomain.LineItem, 0, len(packages)),
		Surcharges:  []ratingdomain.Surcharge{},
	}

	var anyOversized, anyOverweight bool

	for _, pkg := range packages {
		if len(pkg.Boxes) == 0 {
			// Legacy package measured before per-box intake existed;
			// its stored flat fee stands in and never trips the
			// oversized/overweight flags.
			breakdown.Lines = append(breakdown.Lines, ratingdomain.LineItem{
				PackageID:      pkg.PackageID,
				TrackingNumber: pkg.TrackingNumber,
				Method:         ratingdomain.MethodLegacyFlat,
				Fee:            pkg.LegacyFlatFee,
				Note:           "legacy/unmeasured",
			})
			breakdown.Subtotal += pkg.LegacyFlatFee
			continue
		}

		for _, box := range pkg.Boxes {
			if err := box.Validate(); err != nil {
				return ratingdomain.CostBreakdown{}, err
			}

			rated := c.RateBox(box, table)

			entry, ok := table.Rate(box.CategoryKey)
			if !ok {
				entry, _ = table.Rate(ratetabledomain.GeneralCategoryKey)
			}
			rate := entry.VolumeRate
			if rated.Method == ratingdomain.MethodWeight {
				rate = entry.WeightRate
			}

			breakdown.Lines = append(breakdown.Lines, ratingdomain.LineItem{
				PackageID:       pkg.PackageID,
				TrackingNumber:  pkg.TrackingNumber,
				CategoryKey:     box.CategoryKey,
				LengthCm:        box.LengthCm,
				WidthCm:         box.WidthCm,
				HeightCm:        box.HeightCm,
				WeightKg:        rated.RoundedWeightKg,
				Method:          rated.Method,
				Rate:            rate,
				VolumetricUnits: rated.VolumetricUnits,
				Fee:             rated.Fee,
				Oversized:       rated.Oversized,
				Overweight:      rated.Overweight,
			})

			breakdown.Subtotal += rated.Fee
			breakdown.TotalVolumetricUnits += rated.VolumetricUnits
			// Actual weight as measured; rounding only affects the fee.
			breakdown.TotalActualWeightKg += box.WeightKg

			// Flags are shipment-wide OR; the flat surcharges below
			// apply once per shipment, not per box.
			anyOversized = anyOversized || rated.Oversized
			anyOverweight = anyOverweight || rated.Overweight
		}
	}

	constants := table.Constants
	baseCost := breakdown.Subtotal

	// An empty shipment never gets topped up to the minimum.
	if breakdown.Subtotal > 0 && breakdown.Subtotal < constants.MinimumCharge {
		breakdown.MinimumTopUp = constants.MinimumCharge - breakdown.Subtotal
		baseCost = constants.MinimumCharge
	}

	if anyOversized {
		breakdown.Surcharges = append(breakdown.Surcharges, ratingdomain.Surcharge{
			Name:   "oversized",
			Amount: constants.OversizedFee,
			Reason: fmt.Sprintf("dimension over %gcm", constants.OversizedLimitCm),
		})
	}
	if anyOverweight {
		breakdown.Surcharges = append(breakdown.Surcharges, ratingdomain.Surcharge{
			Name:   "overweight",
			Amount: constants.OverweightFee,
			Reason: fmt.Sprintf("weight over %gkg", constants.OverweightLimitKg),
		})
	}

	breakdown.TotalCbm = float64(breakdown.TotalVolumetricUnits) / constants.CbmToCaiFactor
	if deliveryRate > 0 {
		remoteFee := roundMoney(breakdown.TotalCbm * float64(deliveryRate))
		if remoteFee > 0 {
			breakdown.Surcharges = append(breakdown.Surcharges, ratingdomain.Surcharge{
				Name:   "remote_delivery",
				Amount: remoteFee,
				Reason: "volume × rate",
			})
		}
	}

	total := baseCost
	for _, surcharge := range breakdown.Surcharges {
		total += surcharge.Amount
	}
	breakdown.Total = total

	return breakdown, nil
}
