package core

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelTelemetry implements Telemetry on the OpenTelemetry API. It uses
// whatever tracer and meter providers the host process installed
// globally; without an SDK configured, everything degrades to no-ops.
type OTelTelemetry struct {
	tracer trace.Tracer
	meter  metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Float64Counter
}

// NewOTelTelemetry creates a telemetry sink scoped to serviceName.
func NewOTelTelemetry(serviceName string) *OTelTelemetry {
	return &OTelTelemetry{
		tracer:   otel.Tracer(serviceName),
		meter:    otel.Meter(serviceName),
		counters: make(map[string]metric.Float64Counter),
	}
}

// StartSpan starts a span named name.
func (t *OTelTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

// RecordMetric adds value to the counter named name, creating it on
// first use. Counter creation errors fall back to dropping the sample;
// telemetry must never fail a registration.
func (t *OTelTelemetry) RecordMetric(name string, value float64, labels map[string]string) {
	t.mu.Lock()
	counter, ok := t.counters[name]
	if !ok {
		var err error
		counter, err = t.meter.Float64Counter(name)
		if err != nil {
			t.mu.Unlock()
			return
		}
		t.counters[name] = counter
	}
	t.mu.Unlock()

	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	counter.Add(context.Background(), value, metric.WithAttributes(attrs...))
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

func (s *otelSpan) RecordError(err error) {
	if err != nil {
		s.span.RecordError(err)
	}
}
