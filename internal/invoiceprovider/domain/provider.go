// Package domain defines the outbound e-invoice gateway contract.
package domain

import (
	"context"
	"errors"
)

// IssueRequest describes one invoice to issue. IdempotencyKey is stable
// per shipment so a retried issuance cannot produce a second invoice.
type IssueRequest struct {
	Amount         int64
	BuyerTaxID     string
	BuyerName      string
	OrderRef       string
	Description    string
	IdempotencyKey string
}

type IssueResult struct {
	Success       bool
	InvoiceNumber string
	Message       string
}

type VoidRequest struct {
	InvoiceNumber string
	Reason        string
}

// Provider is the gateway to the external e-invoice service.
type Provider interface {
	Issue(ctx context.Context, req IssueRequest) (*IssueResult, error)
	Void(ctx context.Context, req VoidRequest) error
}

var (
	ErrUnavailable = errors.New("invoice_provider_unavailable")
	ErrRejected    = errors.New("invoice_rejected")
)
