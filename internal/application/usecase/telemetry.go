package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
)

const instrumentationName = "github.com/wacky6382/diabetes-risk-calculator/internal/application/usecase"

// Telemetry bundles the tracer and metric instruments shared by the use cases.
type Telemetry struct {
	tracer      trace.Tracer
	assessments metric.Int64Counter
	failures    metric.Int64Counter
	values      metric.Float64Histogram
}

// NewTelemetry creates the use-case instruments on meter. Spans go to the global
// tracer provider.
func NewTelemetry(meter metric.Meter) (*Telemetry, error) {
	assessments, err := meter.Int64Counter("riskcalc.assessments",
		metric.WithDescription("Completed risk assessments"),
		metric.WithUnit("{assessment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessments counter: %w", err)
	}

	failures, err := meter.Int64Counter("riskcalc.assessment.failures",
		metric.WithDescription("Rejected risk assessments by reason"),
		metric.WithUnit("{assessment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	values, err := meter.Float64Histogram("riskcalc.assessment.value",
		metric.WithDescription("Reported probability or score per model"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create value histogram: %w", err)
	}

	return &Telemetry{
		tracer:      otel.Tracer(instrumentationName),
		assessments: assessments,
		failures:    failures,
		values:      values,
	}, nil
}

func (t *Telemetry) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (t *Telemetry) recordSuccess(ctx context.Context, modelID, category string, value float64) {
	attrs := metric.WithAttributes(
		attribute.String("model", modelID),
		attribute.String("category", category),
	)
	t.assessments.Add(ctx, 1, attrs)
	t.values.Record(ctx, value, metric.WithAttributes(attribute.String("model", modelID)))
}

// recordFailure marks the span as failed, counts the rejection and returns err unchanged.
func (t *Telemetry) recordFailure(ctx context.Context, span trace.Span, modelID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	t.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", modelID),
		attribute.String("reason", failureReason(err)),
	))
	return err
}

func failureReason(err error) string {
	switch {
	case service.IsInvalidInput(err):
		return "invalid_input"
	case service.IsUnsupportedModel(err):
		return "unsupported_model"
	case service.IsModelNotFound(err):
		return "model_not_found"
	default:
		return "internal"
	}
}
