// Package otel wires the OpenTelemetry metrics pipeline used by the
// event registry and the monitor. When disabled, the global meter stays
// the default no-op and instrumented code runs without overhead.
package otel

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds OTel configuration
type Config struct {
	Enabled      bool
	ServiceName  string
	Interval     time.Duration
	MetricWriter io.Writer // destination for exported metrics (required when enabled)
}

// Provider manages the OpenTelemetry meter provider.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates the provider and installs it as the global meter provider.
// If OTel is disabled, returns a no-op provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{
		config: cfg,
	}

	if !cfg.Enabled {
		return p, nil
	}
	if cfg.MetricWriter == nil {
		return nil, fmt.Errorf("OTel enabled but no metric writer configured")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.MetricWriter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.Interval),
		)),
	)
	otel.SetMeterProvider(p.meterProvider)

	return p, nil
}

// Flush forces a flush of all pending metrics.
func (p *Provider) Flush(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metric flush failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the provider. Should be called when
// the application exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}
