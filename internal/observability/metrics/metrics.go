// Package metrics exposes the settlement engine's domain instruments.
package metrics

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	previews    metric.Int64Counter
	settlements metric.Int64Counter
	refunds     metric.Int64Counter
	invoices    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
	if cfg.ExporterEndpoint != "" {
		opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.ExporterEndpoint))
	}
	exporter, err := otlpmetricgrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized", zap.String("endpoint", cfg.ExporterEndpoint))
	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "parcelbay"
	}
	meter := provider.Meter(name)

	previews, err := meter.Int64Counter("parcelbay_rating_previews_total")
	if err != nil {
		return nil, err
	}
	settlements, err := meter.Int64Counter("parcelbay_settlements_total")
	if err != nil {
		return nil, err
	}
	refunds, err := meter.Int64Counter("parcelbay_refunds_total")
	if err != nil {
		return nil, err
	}
	invoices, err := meter.Int64Counter("parcelbay_invoices_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		previews:    previews,
		settlements: settlements,
		refunds:     refunds,
		invoices:    invoices,
	}, nil
}

// RecordPreview increments preview counts.
func (m *Metrics) RecordPreview(ctx context.Context) {
	if m == nil {
		return
	}
	m.previews.Add(ctx, 1)
}

// RecordSettlement increments settlement counts per payment method.
func (m *Metrics) RecordSettlement(ctx context.Context, paymentMethod string) {
	if m == nil {
		return
	}
	m.settlements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment_method", strings.TrimSpace(paymentMethod)),
	))
}

// RecordRefund increments refund counts.
func (m *Metrics) RecordRefund(ctx context.Context) {
	if m == nil {
		return
	}
	m.refunds.Add(ctx, 1)
}

// RecordInvoice increments invoice counts per outcome.
func (m *Metrics) RecordInvoice(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.invoices.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", strings.TrimSpace(outcome)),
	))
}
