package service

import (
	"testing"

	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkTotalInvariant(t *testing.T, breakdown ratingdomain.CostBreakdown) {
	t.Helper()
	total := breakdown.Subtotal + breakdown.MinimumTopUp
	for _, surcharge := range breakdown.Surcharges {
		total += surcharge.Amount
	}
	assert.Equal(t, breakdown.Total, total)
}

func TestCalculateSingleBox(t *testing.T) {
	calc := testCalculator()

	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, TrackingNumber: "SF001", Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 60, WidthCm: 60, HeightCm: 60, WeightKg: 30.2},
		}},
	}, testTable(), 0)
	require.NoError(t, err)

	require.Len(t, breakdown.Lines, 1)
	assert.Equal(t, int64(604), breakdown.Subtotal)
	assert.Equal(t, int64(36), breakdown.TotalVolumetricUnits)
	// Subtotal 604 < minimum 2000, topped up.
	assert.Equal(t, int64(1396), breakdown.MinimumTopUp)
	assert.Equal(t, int64(2000), breakdown.Total)
	assert.Empty(t, breakdown.Surcharges)
	checkTotalInvariant(t, breakdown)
}

func TestCalculateMinimumChargeNotAppliedAboveThreshold(t *testing.T) {
	calc := testCalculator()

	// 100*100*60/6000 = 100 units * 10 = 1000 per box, two boxes = 2000.
	box := ratingdomain.Box{CategoryKey: "general", LengthCm: 100, WidthCm: 100, HeightCm: 60, WeightKg: 2}
	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{box, box}},
	}, testTable(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(2000), breakdown.Subtotal)
	assert.Equal(t, int64(0), breakdown.MinimumTopUp)
	assert.Equal(t, int64(2000), breakdown.Total)
}

func TestCalculateEmptyShipmentSkipsMinimumCharge(t *testing.T) {
	calc := testCalculator()

	breakdown, err := calc.Calculate(nil, testTable(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(0), breakdown.Subtotal)
	assert.Equal(t, int64(0), breakdown.MinimumTopUp)
	assert.Equal(t, int64(0), breakdown.Total)
}

func TestCalculateLegacyFlatFeePackage(t *testing.T) {
	calc := testCalculator()

	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 7, TrackingNumber: "OLD7", LegacyFlatFee: 2500},
	}, testTable(), 0)
	require.NoError(t, err)

	require.Len(t, breakdown.Lines, 1)
	line := breakdown.Lines[0]
	assert.Equal(t, ratingdomain.MethodLegacyFlat, line.Method)
	assert.Equal(t, int64(2500), line.Fee)
	assert.Equal(t, "legacy/unmeasured", line.Note)
	assert.False(t, line.Oversized)
	assert.False(t, line.Overweight)
	assert.Equal(t, int64(2500), breakdown.Total)
	assert.Empty(t, breakdown.Surcharges)
}

func TestCalculateShipmentWideSurchargesApplyOnce(t *testing.T) {
	calc := testCalculator()

	// Two oversized boxes, one overweight box; each flat surcharge still
	// appears exactly once.
	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 160, WidthCm: 100, HeightCm: 100, WeightKg: 10},
			{CategoryKey: "general", LengthCm: 170, WidthCm: 100, HeightCm: 100, WeightKg: 10},
		}},
		{PackageID: 2, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 50, WidthCm: 50, HeightCm: 50, WeightKg: 120},
		}},
	}, testTable(), 0)
	require.NoError(t, err)

	names := map[string]int{}
	for _, surcharge := range breakdown.Surcharges {
		names[surcharge.Name]++
	}
	assert.Equal(t, 1, names["oversized"])
	assert.Equal(t, 1, names["overweight"])
	checkTotalInvariant(t, breakdown)
}

func TestCalculateRemoteDeliveryFee(t *testing.T) {
	calc := testCalculator()

	// 100*100*60/6000 = 100 units -> 100/35.3 = 2.8328... cbm.
	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 100, WidthCm: 100, HeightCm: 60, WeightKg: 2},
		}},
	}, testTable(), 500)
	require.NoError(t, err)

	var remote *ratingdomain.Surcharge
	for i := range breakdown.Surcharges {
		if breakdown.Surcharges[i].Name == "remote_delivery" {
			remote = &breakdown.Surcharges[i]
		}
	}
	require.NotNil(t, remote)
	// round(2.83286... * 500) = 1416
	assert.Equal(t, int64(1416), remote.Amount)
	assert.Equal(t, "volume × rate", remote.Reason)
	checkTotalInvariant(t, breakdown)
}

func TestCalculateNoRemoteFeeForStandardArea(t *testing.T) {
	calc := testCalculator()

	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 100, WidthCm: 100, HeightCm: 60, WeightKg: 2},
		}},
	}, testTable(), 0)
	require.NoError(t, err)

	for _, surcharge := range breakdown.Surcharges {
		assert.NotEqual(t, "remote_delivery", surcharge.Name)
	}
}

func TestCalculateSumsActualWeights(t *testing.T) {
	calc := testCalculator()

	// 4.31 rates as 4.4 but the shipment total reports the measured
	// weight, not the billing rounding.
	breakdown, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 40, WidthCm: 30, HeightCm: 20, WeightKg: 4.31},
		}},
	}, testTable(), 0)
	require.NoError(t, err)

	assert.Equal(t, 4.31, breakdown.TotalActualWeightKg)
	assert.Equal(t, 4.4, breakdown.Lines[0].WeightKg)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	calc := testCalculator()

	_, err := calc.Calculate([]ratingdomain.PackageInput{
		{PackageID: 1, Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 0, WidthCm: 10, HeightCm: 10, WeightKg: 1},
		}},
	}, testTable(), 0)
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidDimensions)

	_, err = calc.Calculate(nil, testTable(), -1)
	assert.ErrorIs(t, err, ratingdomain.ErrInvalidDeliveryRate)
}

func TestCalculateDeterministic(t *testing.T) {
	calc := testCalculator()
	table := testTable()

	inputs := []ratingdomain.PackageInput{
		{PackageID: 1, TrackingNumber: "SF001", Boxes: []ratingdomain.Box{
			{CategoryKey: "general", LengthCm: 60, WidthCm: 60, HeightCm: 60, WeightKg: 30.2},
			{CategoryKey: "fragile", LengthCm: 35.5, WidthCm: 22, HeightCm: 18.7, WeightKg: 4.35},
		}},
		{PackageID: 2, TrackingNumber: "OLD2", LegacyFlatFee: 780},
	}

	first, err := calc.Calculate(inputs, table, 300)
	require.NoError(t, err)
	second, err := calc.Calculate(inputs, table, 300)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
