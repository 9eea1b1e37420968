// Package domain defines the settlement coordinator contract: shipment
// creation with payment, lifecycle transitions, refunds, and invoicing.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/parcelbay/parcelbay/internal/rating/domain"
	shipmentdomain "github.com/parcelbay/parcelbay/internal/shipment/domain"
)

// PreviewRequest rates a set of packages without committing anything.
type PreviewRequest struct {
	OwnerID      snowflake.ID
	PackageIDs   []snowflake.ID
	DeliveryRate int64
}

// CreateShipmentRequest commits a calculation: binds the packages,
// settles payment, and opens the shipment.
type CreateShipmentRequest struct {
	OwnerID       snowflake.ID
	PackageIDs    []snowflake.ID
	PaymentMethod shipmentdomain.PaymentMethod
	DeliveryRate  int64
	RecipientInfo map[string]any
	BuyerTaxID    string
}

// CreateShipmentResult pairs the persisted shipment with the breakdown
// snapshot it was priced from.
type CreateShipmentResult struct {
	Shipment  *shipmentdomain.Shipment
	Breakdown ratingdomain.CostBreakdown
}

// RefundOutcome reports what the cancel path did with the money.
type RefundOutcome string

const (
	RefundOutcomeRefunded    RefundOutcome = "REFUNDED"
	RefundOutcomeNotRequired RefundOutcome = "NOT_REQUIRED"
)

// CancelResult summarizes a cancel or return.
type CancelResult struct {
	Shipment         *shipmentdomain.Shipment
	ReleasedPackages int64
	Refund           RefundOutcome
	RefundedAmount   int64
}

// BulkTransitionResult reports per-shipment outcomes of a bulk move.
type BulkTransitionResult struct {
	Updated []snowflake.ID
	Failed  map[snowflake.ID]error
}

// Service is the settlement coordinator. Every money or status mutation
// it performs is transactional; partial commits never escape.
type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (*ratingdomain.CostBreakdown, error)
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResult, error)
	GetShipment(ctx context.Context, ownerID, shipmentID snowflake.ID) (*shipmentdomain.Shipment, error)
	ListShipments(ctx context.Context, ownerID snowflake.ID, status shipmentdomain.Status, limit int) ([]*shipmentdomain.Shipment, error)
	TransitionStatus(ctx context.Context, shipmentID snowflake.ID, next shipmentdomain.Status, reason string) (*shipmentdomain.Shipment, error)
	BulkTransition(ctx context.Context, shipmentIDs []snowflake.ID, next shipmentdomain.Status) (*BulkTransitionResult, error)
	CancelOrReturn(ctx context.Context, shipmentID snowflake.ID, next shipmentdomain.Status, reason string) (*CancelResult, error)
	DeleteShipment(ctx context.Context, shipmentID snowflake.ID) error
	AdjustPrice(ctx context.Context, shipmentID snowflake.ID, newTotal int64, note string) (*shipmentdomain.Shipment, error)
	IssueInvoice(ctx context.Context, shipmentID snowflake.ID) (*shipmentdomain.Shipment, error)
	VoidInvoice(ctx context.Context, shipmentID snowflake.ID, reason string) (*shipmentdomain.Shipment, error)
}

var (
	ErrDeleteActiveShipment = errors.New("shipment_still_active")
)
