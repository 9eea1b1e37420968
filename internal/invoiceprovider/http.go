package invoiceprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	"go.uber.org/zap"
)

// HTTPProvider talks to the e-invoice service over its JSON API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("invoiceprovider.http"),
	}
}

type issuePayload struct {
	Amount         int64  `json:"amount"`
	BuyerTaxID     string `json:"buyer_tax_id,omitempty"`
	BuyerName      string `json:"buyer_name,omitempty"`
	OrderRef       string `json:"order_ref"`
	Description    string `json:"description,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

type issueResponse struct {
	Success       bool   `json:"success"`
	InvoiceNumber string `json:"invoice_number"`
	Message       string `json:"message"`
}

func (p *HTTPProvider) Issue(ctx context.Context, req domain.IssueRequest) (*domain.IssueResult, error) {
	body, err := json.Marshal(issuePayload{
		Amount:         req.Amount,
		BuyerTaxID:     req.BuyerTaxID,
		BuyerName:      req.BuyerName,
		OrderRef:       req.OrderRef,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	var resp issueResponse
	if err := p.do(ctx, http.MethodPost, "/invoices", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		p.log.Warn("invoice rejected",
			zap.String("order_ref", req.OrderRef),
			zap.String("message", resp.Message),
		)
		return &domain.IssueResult{Success: false, Message: resp.Message}, domain.ErrRejected
	}
	return &domain.IssueResult{
		Success:       true,
		InvoiceNumber: resp.InvoiceNumber,
		Message:       resp.Message,
	}, nil
}

func (p *HTTPProvider) Void(ctx context.Context, req domain.VoidRequest) error {
	body, err := json.Marshal(map[string]string{"reason": req.Reason})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/invoices/%s/void", req.InvoiceNumber)
	return p.do(ctx, http.MethodPost, path, body, nil)
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", domain.ErrRejected, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
