package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/chatkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Call statuses recorded on chat metrics.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// CallRecord describes one finished chat call.
type CallRecord struct {
	Model            string
	Operation        string
	Status           string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// ChatMetrics holds the instruments recorded for chat completions.
type ChatMetrics struct {
	calls    metric.Int64Counter
	tokens   metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewChatMetrics creates chat metric instruments on the given meter.
func NewChatMetrics(meter metric.Meter) (*ChatMetrics, error) {
	calls, err := meter.Int64Counter("chat.calls",
		metric.WithDescription("Completed chat calls by model, operation and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat.calls counter: %w", err)
	}

	tokens, err := meter.Int64Counter("chat.tokens",
		metric.WithDescription("Tokens reported by the backend"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat.tokens counter: %w", err)
	}

	duration, err := meter.Float64Histogram("chat.duration",
		metric.WithDescription("Duration of chat calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat.duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("chat.active",
		metric.WithDescription("Chat calls currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat.active gauge: %w", err)
	}

	return &ChatMetrics{
		calls:    calls,
		tokens:   tokens,
		duration: duration,
		active:   active,
	}, nil
}

// CallStarted increments the in-flight call count.
func (m *ChatMetrics) CallStarted(ctx context.Context, model, operation string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrModel, model),
		attribute.String(AttrOperation, operation),
	))
}

// CallFinished decrements the in-flight count and records the finished call.
// Tokens are recorded only for successful calls.
func (m *ChatMetrics) CallFinished(ctx context.Context, rec CallRecord) {
	if m == nil {
		return
	}
	base := []attribute.KeyValue{
		attribute.String(AttrModel, rec.Model),
		attribute.String(AttrOperation, rec.Operation),
	}
	m.active.Add(ctx, -1, metric.WithAttributes(base...))
	m.calls.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(AttrStatus, rec.Status))...))
	m.duration.Record(ctx, rec.Duration.Seconds(), metric.WithAttributes(base...))

	if rec.Status != StatusOK {
		return
	}
	m.tokens.Add(ctx, int64(rec.PromptTokens), metric.WithAttributes(append(base, attribute.String(AttrTokenType, "prompt"))...))
	m.tokens.Add(ctx, int64(rec.CompletionTokens), metric.WithAttributes(append(base, attribute.String(AttrTokenType, "completion"))...))
}
