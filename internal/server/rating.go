package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	settlementdomain "github.com/parcelbay/parcelbay/internal/settlement/domain"
)

type previewItem struct {
	CategoryKey string  `json:"category_key"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	WeightKg    float64 `json:"weight_kg"`
	Quantity    int     `json:"quantity"`
}

type previewItemsRequest struct {
	Items        []previewItem `json:"items"`
	DeliveryRate int64         `json:"delivery_rate"`
}

// PreviewItems rates ad hoc measurements without touching stored
// packages. Used by the public shipping-cost calculator.
func (s *Server) PreviewItems(c *gin.Context) {
	var req previewItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	inputs := make([]ratingdomain.PackageInput, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			AbortWithError(c, ratingdomain.ErrInvalidQuantity)
			return
		}
		box := ratingdomain.Box{
			CategoryKey: item.CategoryKey,
			LengthCm:    item.LengthCm,
			WidthCm:     item.WidthCm,
			HeightCm:    item.HeightCm,
			WeightKg:    item.WeightKg,
		}
		if err := box.Validate(); err != nil {
			AbortWithError(c, err)
			return
		}
		boxes := make([]ratingdomain.Box, item.Quantity)
		for i := range boxes {
			boxes[i] = box
		}
		inputs = append(inputs, ratingdomain.PackageInput{Boxes: boxes})
	}

	table, err := s.rates.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	breakdown, err := s.calc.Calculate(inputs, table, req.DeliveryRate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

type previewPackagesRequest struct {
	PackageIDs   []int64 `json:"package_ids"`
	DeliveryRate int64   `json:"delivery_rate"`
}

// PreviewPackages rates the caller's stored packages, pulling the
// measured boxes recorded at intake.
func (s *Server) PreviewPackages(c *gin.Context) {
	var req previewPackagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	breakdown, err := s.settlementSvc.Preview(c.Request.Context(), settlementdomain.PreviewRequest{
		OwnerID:      ownerID(c),
		PackageIDs:   toSnowflakeIDs(req.PackageIDs),
		DeliveryRate: req.DeliveryRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
