package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListRateCategories(c *gin.Context) {
	categories, err := s.ratesSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type updateCategoryRequest struct {
	Name       string `json:"name"`
	WeightRate int64  `json:"weight_rate"`
	VolumeRate int64  `json:"volume_rate"`
}

func (s *Server) UpdateRateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.ratesSvc.UpdateCategory(c.Request.Context(), c.Param("key"), req.Name, req.WeightRate, req.VolumeRate); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateConstantsRequest struct {
	Values map[string]string `json:"values"`
}

func (s *Server) UpdateRateConstants(c *gin.Context) {
	var req updateConstantsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Values) == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.ratesSvc.UpdateConstants(c.Request.Context(), req.Values); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
