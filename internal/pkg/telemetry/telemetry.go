// Package telemetry wires the OpenTelemetry tracer and meter providers used by
// the batch binaries.
//
// Metrics are collected by a manual reader and served as a JSON snapshot,
// spans are kept in-process unless a span processor is supplied.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider owns the tracer and meter providers of one process.
type Provider struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Reader         *sdkmetric.ManualReader
}

// New builds a Provider for serviceName without touching the otel globals.
func New(serviceName string, opts ...sdktrace.TracerProviderOption) (*Provider, error) {
	if serviceName == "" {
		return nil, errors.New("service name is required")
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tpOpts := append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)
	reader := sdkmetric.NewManualReader()

	return &Provider{
		TracerProvider: sdktrace.NewTracerProvider(tpOpts...),
		MeterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
		Reader: reader,
	}, nil
}

// Setup builds a Provider and installs it as the global tracer provider,
// meter provider and W3C propagator.
func Setup(serviceName string, opts ...sdktrace.TracerProviderOption) (*Provider, error) {
	p, err := New(serviceName, opts...)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(p.TracerProvider)
	otel.SetMeterProvider(p.MeterProvider)
	otel.SetTextMapPropagator(Propagator())

	return p, nil
}

// Propagator returns the W3C trace-context and baggage propagator.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.TracerProvider.Tracer(name)
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider: %w", err))
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider: %w", err))
	}
	return errors.Join(errs...)
}

// TraceIDs returns the hex trace and span ids of the span in ctx, empty when
// ctx carries no valid span context.
func TraceIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
