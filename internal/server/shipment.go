package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	settlementdomain "github.com/parcelbay/parcelbay/internal/settlement/domain"
	shipmentdomain "github.com/parcelbay/parcelbay/internal/shipment/domain"
)

type createShipmentRequest struct {
	PackageIDs    []int64        `json:"package_ids"`
	PaymentMethod string         `json:"payment_method"`
	DeliveryRate  int64          `json:"delivery_rate"`
	RecipientInfo map[string]any `json:"recipient_info"`
	BuyerTaxID    string         `json:"buyer_tax_id"`
}

func (s *Server) CreateShipment(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.settlementSvc.CreateShipment(c.Request.Context(), settlementdomain.CreateShipmentRequest{
		OwnerID:       ownerID(c),
		PackageIDs:    toSnowflakeIDs(req.PackageIDs),
		PaymentMethod: shipmentdomain.PaymentMethod(req.PaymentMethod),
		DeliveryRate:  req.DeliveryRate,
		RecipientInfo: req.RecipientInfo,
		BuyerTaxID:    req.BuyerTaxID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"shipment":  result.Shipment,
		"breakdown": result.Breakdown,
	})
}

func (s *Server) GetShipment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	shipment, err := s.settlementSvc.GetShipment(c.Request.Context(), ownerID(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (s *Server) ListShipments(c *gin.Context) {
	status := shipmentdomain.Status(c.Query("status"))
	limit := intQuery(c, "limit", 50)

	shipments, err := s.settlementSvc.ListShipments(c.Request.Context(), ownerID(c), status, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipments": shipments})
}

type cancelShipmentRequest struct {
	Returned bool   `json:"returned"`
	Reason   string `json:"reason"`
}

func (s *Server) CancelShipment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req cancelShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Owner scoping before the admin-grade cancel path runs.
	if _, err := s.settlementSvc.GetShipment(c.Request.Context(), ownerID(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	next := shipmentdomain.StatusCancelled
	if req.Returned {
		next = shipmentdomain.StatusReturned
	}
	result, err := s.settlementSvc.CancelOrReturn(c.Request.Context(), id, next, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shipment":          result.Shipment,
		"released_packages": result.ReleasedPackages,
		"refunded":          result.Refund == settlementdomain.RefundOutcomeRefunded,
		"refunded_amount":   result.RefundedAmount,
	})
}

type transitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (s *Server) TransitionShipment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	shipment, err := s.settlementSvc.TransitionStatus(c.Request.Context(), id, shipmentdomain.Status(req.Status), req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

type bulkTransitionRequest struct {
	ShipmentIDs []int64 `json:"shipment_ids"`
	Status      string  `json:"status"`
}

func (s *Server) BulkTransitionShipments(c *gin.Context) {
	var req bulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ShipmentIDs) == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.settlementSvc.BulkTransition(c.Request.Context(), toSnowflakeIDs(req.ShipmentIDs), shipmentdomain.Status(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	failed := make(map[string]string, len(result.Failed))
	for id, failure := range result.Failed {
		failed[id.String()] = failure.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"updated": result.Updated,
		"failed":  failed,
	})
}

type adjustPriceRequest struct {
	NewTotal int64  `json:"new_total"`
	Reason   string `json:"reason"`
}

func (s *Server) AdjustShipmentPrice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req adjustPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	shipment, err := s.settlementSvc.AdjustPrice(c.Request.Context(), id, req.NewTotal, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (s *Server) DeleteShipment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.settlementSvc.DeleteShipment(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) IssueShipmentInvoice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	shipment, err := s.settlementSvc.IssueInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"invoice_number": shipment.InvoiceNumber,
		"shipment":       shipment,
	})
}

type voidInvoiceRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) VoidShipmentInvoice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req voidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	shipment, err := s.settlementSvc.VoidInvoice(c.Request.Context(), id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func toSnowflakeIDs(raw []int64) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, snowflake.ID(id))
	}
	return ids
}
