package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
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
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	documentsAssembled metric.Int64Counter
	paymentEvents      metric.Int64Counter
	deliveries         metric.Int64Counter
	rateLimitDenied    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "paydocs"
	}
	meter := provider.Meter(name)

	documentsAssembled, err := meter.Int64Counter("paydocs_documents_assembled_total")
	if err != nil {
		return nil, err
	}
	paymentEvents, err := meter.Int64Counter("paydocs_payment_events_total")
	if err != nil {
		return nil, err
	}
	deliveries, err := meter.Int64Counter("paydocs_deliveries_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("paydocs_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsAssembled: documentsAssembled,
		paymentEvents:      paymentEvents,
		deliveries:         deliveries,
		rateLimitDenied:    rateLimitDenied,
	}, nil
}

func (m *Metrics) RecordDocumentAssembled(ctx context.Context, documentType string) {
	if m == nil {
		return
	}
	m.documentsAssembled.Add(ctx, 1, metric.WithAttributes(attribute.String("document_type", documentType)))
}

func (m *Metrics) RecordPaymentEvent(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.paymentEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) RecordDelivery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, route string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
