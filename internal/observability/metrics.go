package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/pawmate/pawmate/internal/config"
)

const meterName = "pawmate"

type appMetrics struct {
	clientOpCounter   metric.Int64Counter
	queryCacheCounter metric.Int64Counter
	refetchCounter    metric.Int64Counter
	realtimeCounter   metric.Int64Counter
	sessionCounter    metric.Int64Counter
}

var (
	metricsMu sync.RWMutex
	metrics   *appMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.Telemetry.Enabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Telemetry.Endpoint)}
	if cfg.Telemetry.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.Telemetry.ServiceName),
			attribute.String("deployment.environment", cfg.Telemetry.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Telemetry.MetricsInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter(meterName)
	clientOps, err := meter.Int64Counter("client.operations")
	if err != nil {
		return nil, err
	}
	queryCache, err := meter.Int64Counter("query.cache.lookups")
	if err != nil {
		return nil, err
	}
	refetches, err := meter.Int64Counter("query.refetches")
	if err != nil {
		return nil, err
	}
	realtime, err := meter.Int64Counter("realtime.events")
	if err != nil {
		return nil, err
	}
	sessions, err := meter.Int64Counter("session.transitions")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	metrics = &appMetrics{
		clientOpCounter:   clientOps,
		queryCacheCounter: queryCache,
		refetchCounter:    refetches,
		realtimeCounter:   realtime,
		sessionCounter:    sessions,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics enabled", "endpoint", cfg.Telemetry.Endpoint)
	return mp, nil
}

func current() *appMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return metrics
}

// RecordClientOperation counts one resource-client call outcome.
func RecordClientOperation(ctx context.Context, resource, op, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.clientOpCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

// RecordQueryCache counts a cache lookup; outcome is hit, stale or miss.
func RecordQueryCache(ctx context.Context, key, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.queryCacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("outcome", outcome),
	))
}

// RecordQueryRefetch counts a refetch and what triggered it.
func RecordQueryRefetch(ctx context.Context, key, reason string) {
	m := current()
	if m == nil {
		return
	}
	m.refetchCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("reason", reason),
	))
}

// RecordRealtimeEvent counts change-feed activity per table.
func RecordRealtimeEvent(ctx context.Context, table, outcome string) {
	m := current()
	if m == nil {
		return
	}
	m.realtimeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("outcome", outcome),
	))
}

// RecordSessionTransition counts session state machine transitions.
func RecordSessionTransition(ctx context.Context, from, to string) {
	m := current()
	if m == nil {
		return
	}
	m.sessionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
