// Package domain contains the shipment aggregate and its state machine.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the closed set of shipment lifecycle states. Transitions
// are validated centrally through CanTransitionTo.
type Status string

const (
	StatusAwaitingReview Status = "AWAITING_REVIEW"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusCustomsCheck   Status = "CUSTOMS_CHECK"
	StatusUnstuffing     Status = "UNSTUFFING"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
	StatusReturned       Status = "RETURNED"
)

type PaymentMethod string

const (
	PaymentMethodWallet   PaymentMethod = "WALLET"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

type InvoiceStatus string

const (
	InvoiceStatusNone   InvoiceStatus = ""
	InvoiceStatusIssued InvoiceStatus = "ISSUED"
	InvoiceStatusVoid   InvoiceStatus = "VOID"
	InvoiceStatusFailed InvoiceStatus = "FAILED"
)

// Shipment is the aggregate root created when a customer commits a cost
// calculation over a set of packages.
type Shipment struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	OwnerID       snowflake.ID      `gorm:"not null;index"`
	Status        Status            `gorm:"type:text;not null"`
	PaymentMethod PaymentMethod     `gorm:"type:text;not null"`
	TotalCost     int64             `gorm:"not null"`
	DeliveryRate  int64             `gorm:"not null;default:0"`
	RecipientInfo datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	// Breakdown snapshots the CostBreakdown computed at commit time so
	// the invoice line detail survives later rate edits.
	Breakdown     datatypes.JSON `gorm:"type:jsonb"`
	InvoiceNumber string         `gorm:"type:text;not null;default:''"`
	InvoiceStatus InvoiceStatus  `gorm:"type:text;not null;default:''"`
	TransactionID *snowflake.ID  `gorm:"index"`
	CancelReason  string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Shipment) TableName() string { return "shipments" }

// transitions is the forward path plus the cancel/return side branches,
// reachable from any pre-COMPLETED state.
var transitions = map[Status][]Status{
	StatusAwaitingReview: {StatusPendingPayment, StatusProcessing, StatusCancelled, StatusReturned},
	StatusPendingPayment: {StatusProcessing, StatusCancelled, StatusReturned},
	StatusProcessing:     {StatusShipped, StatusCancelled, StatusReturned},
	StatusShipped:        {StatusCustomsCheck, StatusCancelled, StatusReturned},
	StatusCustomsCheck:   {StatusUnstuffing, StatusCancelled, StatusReturned},
	StatusUnstuffing:     {StatusCompleted, StatusCancelled, StatusReturned},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusReturned:       {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

var (
	ErrNotFound             = errors.New("shipment_not_found")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidTransition    = errors.New("invalid_transition")
	ErrInvalidPayment       = errors.New("invalid_payment_method")
	ErrInvalidRecipient     = errors.New("invalid_recipient")
	ErrNoPackages           = errors.New("no_packages")
	ErrReasonRequired       = errors.New("reason_required")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInvoiceAlreadyIssued = errors.New("invoice_already_issued")
	ErrInvoiceNotIssued     = errors.New("invoice_not_issued")
	ErrNothingToInvoice     = errors.New("nothing_to_invoice")
)
