package invoiceprovider

import (
	"time"

	"github.com/parcelbay/parcelbay/internal/config"
	"github.com/parcelbay/parcelbay/internal/invoiceprovider/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig picks the HTTP gateway when a base URL is configured,
// the no-op provider otherwise.
func NewFromConfig(cfg config.Config, log *zap.Logger) domain.Provider {
	if cfg.Invoice.BaseURL == "" {
		return NewNoOpProvider(log)
	}
	timeout := time.Duration(cfg.Invoice.TimeoutSeconds) * time.Second
	return NewHTTPProvider(cfg.Invoice.BaseURL, cfg.Invoice.APIKey, timeout, log)
}

var Module = fx.Module("invoiceprovider",
	fx.Provide(NewFromConfig),
)
