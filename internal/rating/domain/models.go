// Package domain contains the value objects produced by the rating
// engine. Everything here is plain data; the math lives in the service.
package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// BillingMethod records which side of the max(volume, weight) race won.
type BillingMethod string

const (
	MethodVolume BillingMethod = "VOLUME"
	MethodWeight BillingMethod = "WEIGHT"
	// MethodLegacyFlat marks line items priced from a stored flat fee
	// because the package has no measurements.
	MethodLegacyFlat BillingMethod = "LEGACY_FLAT"
)

// Box is one measured carton, already validated at the storage boundary.
type Box struct {
	CategoryKey string  `json:"category_key"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	WeightKg    float64 `json:"weight_kg"`
}

// Validate rejects non-positive dimensions or weight. Callers validate
// before rating; the rater assumes valid input.
func (b Box) Validate() error {
	if b.LengthCm <= 0 || b.WidthCm <= 0 || b.HeightCm <= 0 {
		return ErrInvalidDimensions
	}
	if b.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	return nil
}

// BoxRating is the rater output for a single box.
type BoxRating struct {
	Fee             int64         `json:"fee"`
	Method          BillingMethod `json:"method"`
	VolumetricUnits int64         `json:"volumetric_units"`
	RoundedWeightKg float64       `json:"rounded_weight_kg"`
	VolumeFee       int64         `json:"volume_fee"`
	WeightFee       int64         `json:"weight_fee"`
	Oversized       bool          `json:"oversized"`
	Overweight      bool          `json:"overweight"`
}

// PackageInput is a package candidate for a shipment calculation. A
// package with no boxes falls back to its stored flat fee.
type PackageInput struct {
	PackageID      snowflake.ID
	TrackingNumber string
	Boxes          []Box
	LegacyFlatFee  int64
}

// LineItem is one priced row of the breakdown.
type LineItem struct {
	PackageID       snowflake.ID  `json:"package_id"`
	TrackingNumber  string        `json:"tracking_number,omitempty"`
	CategoryKey     string        `json:"category_key,omitempty"`
	LengthCm        float64       `json:"length_cm,omitempty"`
	WidthCm         float64       `json:"width_cm,omitempty"`
	HeightCm        float64       `json:"height_cm,omitempty"`
	WeightKg        float64       `json:"weight_kg,omitempty"`
	Method          BillingMethod `json:"method"`
	Rate            int64         `json:"rate"`
	VolumetricUnits int64         `json:"volumetric_units"`
	Fee             int64         `json:"fee"`
	Oversized       bool          `json:"oversized"`
	Overweight      bool          `json:"overweight"`
	Note            string        `json:"note,omitempty"`
}

// Surcharge is a shipment-wide extra fee with a human-readable reason.
type Surcharge struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// CostBreakdown is the full itemized result of a shipment calculation.
// Invariant: Total == Subtotal + MinimumTopUp + sum(Surcharges), every
// component a non-negative integer TWD amount.
type CostBreakdown struct {
	RateVersion          int64       `json:"rate_version"`
	Lines                []LineItem  `json:"lines"`
	Surcharges           []Surcharge `json:"surcharges"`
	Subtotal             int64       `json:"subtotal"`
	MinimumTopUp         int64       `json:"minimum_top_up"`
	Total                int64       `json:"total"`
	TotalVolumetricUnits int64       `json:"total_volumetric_units"`
	TotalActualWeightKg  float64     `json:"total_actual_weight_kg"`
	TotalCbm             float64     `json:"total_cbm"`
}

var (
	ErrInvalidDimensions   = errors.New("invalid_dimensions")
	ErrInvalidWeight       = errors.New("invalid_weight")
	ErrInvalidDeliveryRate = errors.New("invalid_delivery_rate")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
)
