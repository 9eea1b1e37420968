package invoiceprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	"go.uber.org/zap"
)

// NoOpProvider is used when no invoice gateway is configured. It issues
// synthetic invoice numbers so the rest of the flow behaves normally.
type NoOpProvider struct {
	log *zap.Logger
}

func NewNoOpProvider(log *zap.Logger) *NoOpProvider {
	return &NoOpProvider{log: log.Named("invoiceprovider.noop")}
}

func (p *NoOpProvider) Issue(ctx context.Context, req domain.IssueRequest) (*domain.IssueResult, error) {
	number := fmt.Sprintf("NOOP-%s-%d", req.OrderRef, time.Now().UTC().Unix())
	p.log.Info("invoice gateway not configured, issuing synthetic invoice",
		zap.String("order_ref", req.OrderRef),
		zap.String("invoice_number", number),
	)
	return &domain.IssueResult{Success: true, InvoiceNumber: number}, nil
}

func (p *NoOpProvider) Void(ctx context.Context, req domain.VoidRequest) error {
	p.log.Info("invoice gateway not configured, void is a no-op",
		zap.String("invoice_number", req.InvoiceNumber),
	)
	return nil
}
