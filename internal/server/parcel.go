package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	parceldomain "github.com/parcelbay/parcelbay/internal/parcel/domain"
	"github.com/parcelbay/parcelbay/pkg/db/pagination"
)

type forecastRequest struct {
	TrackingNumber string `json:"tracking_number"`
	Note           string `json:"note"`
}

func (s *Server) ForecastPackage(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	pkg, err := s.parcelSvc.Forecast(c.Request.Context(), ownerID(c), req.TrackingNumber, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (s *Server) ListPackages(c *gin.Context) {
	filter := parceldomain.ListFilter{
		OwnerID: ownerID(c),
		Status:  parceldomain.Status(c.Query("status")),
	}
	page := pagination.Pagination{
		PageToken: c.Query("page_token"),
		PageSize:  intQuery(c, "page_size", 50),
	}

	packages, err := s.parcelSvc.List(c.Request.Context(), filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (s *Server) GetPackage(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pkg, err := s.parcelSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if pkg.OwnerID != ownerID(c) {
		AbortWithError(c, parceldomain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

type boxMeasurementRequest struct {
	CategoryKey string  `json:"category_key"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	WeightKg    float64 `json:"weight_kg"`
}

type packageArrivedRequest struct {
	Boxes []boxMeasurementRequest `json:"boxes"`
}

// PackageArrived records the warehouse intake measurements and moves
// the package to ARRIVED.
func (s *Server) PackageArrived(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req packageArrivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	boxes := make([]parceldomain.BoxMeasurement, 0, len(req.Boxes))
	for _, box := range req.Boxes {
		boxes = append(boxes, parceldomain.BoxMeasurement{
			CategoryKey: box.CategoryKey,
			LengthCm:    box.LengthCm,
			WidthCm:     box.WidthCm,
			HeightCm:    box.HeightCm,
			WeightKg:    box.WeightKg,
		})
	}

	pkg, err := s.parcelSvc.MarkArrived(c.Request.Context(), id, boxes)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}
