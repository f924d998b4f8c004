package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/application/usecase"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/event"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
	"github.com/wacky6382/diabetes-risk-calculator/pkg/testutil"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...interface{}) error
	publishedEvents []interface{}
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...interface{}) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noopTelemetry(t *testing.T) *usecase.Telemetry {
	t.Helper()
	tel, err := usecase.NewTelemetry(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return tel
}

func newAssessRisk(t *testing.T, publisher *mockEventPublisher) *usecase.AssessRisk {
	t.Helper()
	engine := service.NewRiskEngine(service.DefaultCatalog())
	return usecase.NewAssessRisk(engine, publisher, noopTelemetry(t), discardLogger(), service.ModelDiabetesLogisticV1)
}

func graduateMale() dto.SubjectInput {
	return dto.SubjectInput{
		Age:       38,
		Sex:       "male",
		Education: "graduate",
		Betel:     "never",
		BMI:       testutil.ReferenceBMI,
		WHR:       testutil.ReferenceWHR,
	}
}

// --- Tests ---

func TestAssessRisk_Execute(t *testing.T) {
	t.Run("scores the additive model with a BMI projection", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := newAssessRisk(t, publisher)

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			ModelID:   service.ModelDiabetesScoreV0,
			Subject:   graduateMale(),
			TargetBMI: 24,
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, service.ModelDiabetesScoreV0, resp.ModelID)
		assert.Equal(t, "linear-score", resp.Link)
		assert.Equal(t, "9.04", resp.Value)
		assert.Equal(t, "MODERATE", resp.Category)
		assert.Equal(t, "moderate risk", resp.CategoryLabel)
		assert.Equal(t, "graduate", resp.EducationBand)
		assert.Equal(t, "1.54", resp.NonModifiableTotal)
		assert.Equal(t, "7.50", resp.ModifiableTotal)
		assert.Equal(t, 60, resp.ProgressPercent)
		assert.Equal(t, dto.Disclaimer, resp.Disclaimer)
		assert.Len(t, resp.Contributions, 7)
		assert.False(t, resp.AssessedAt.IsZero())

		require.NotNil(t, resp.Projection)
		assert.Equal(t, "24.0", resp.Projection.TargetBMI)
		assert.Equal(t, "8.63", resp.Projection.ProjectedValue)
		assert.Equal(t, "-0.41", resp.Projection.Delta)
		assert.Equal(t, "MODERATE", resp.Projection.ProjectedCategory)

		require.Len(t, publisher.publishedEvents, 1)
		assessed, ok := publisher.publishedEvents[0].(event.RiskAssessed)
		require.True(t, ok)
		assert.Equal(t, resp.ID, assessed.AssessmentID)
	})

	t.Run("falls back to the default logistic model", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := newAssessRisk(t, publisher)

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{Subject: graduateMale()})
		require.NoError(t, err)

		assert.Equal(t, service.ModelDiabetesLogisticV1, resp.ModelID)
		assert.Equal(t, "0.0194", resp.Value)
		assert.Equal(t, "HIGH", resp.Category)
		assert.Equal(t, "above cutoff", resp.CategoryLabel)
		assert.Nil(t, resp.Projection)

		require.Len(t, publisher.publishedEvents, 2)
		_, ok := publisher.publishedEvents[1].(event.HighRiskFlagged)
		assert.True(t, ok)
	})

	t.Run("derives metrics from measurements", func(t *testing.T) {
		uc := newAssessRisk(t, &mockEventPublisher{})

		subject := graduateMale()
		subject.BMI, subject.WHR = 0, 0
		subject.HeightCm, subject.WeightKg = 170, 78.2
		subject.WaistCm, subject.HipCm = 89, 100

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			ModelID: service.ModelDiabetesScoreV0,
			Subject: subject,
		})
		require.NoError(t, err)
		assert.Equal(t, "27.06", resp.BMI)
		assert.Equal(t, "0.89", resp.WHR)
	})

	t.Run("accepts yes/no betel answers", func(t *testing.T) {
		uc := newAssessRisk(t, &mockEventPublisher{})

		subject := graduateMale()
		subject.Betel = "yes"

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			ModelID: service.ModelDiabetesScoreV0,
			Subject: subject,
		})
		require.NoError(t, err)
		assert.Equal(t, "10.54", resp.Value)
		assert.Equal(t, "9.00", resp.ModifiableTotal)
		assert.Equal(t, "1.54", resp.NonModifiableTotal)
	})

	t.Run("accepts the questionnaire's betel answer labels", func(t *testing.T) {
		uc := newAssessRisk(t, &mockEventPublisher{})

		subject := graduateMale()
		subject.Betel = "過去曾吃但已戒"

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			ModelID: service.ModelDiabetesScoreV0,
			Subject: subject,
		})
		require.NoError(t, err)
		assert.Equal(t, "10.54", resp.Value)
	})
}

func TestAssessRisk_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.AssessRiskRequest)
		check   func(t *testing.T, err error)
		wantErr string
	}{
		{
			name:   "unknown sex",
			mutate: func(req *dto.AssessRiskRequest) { req.Subject.Sex = "other" },
			check:  func(t *testing.T, err error) { testutil.RequireInvalidInput(t, err, "sex") },
		},
		{
			name:   "unknown education",
			mutate: func(req *dto.AssessRiskRequest) { req.Subject.Education = "8" },
			check:  func(t *testing.T, err error) { testutil.RequireInvalidInput(t, err, "education") },
		},
		{
			name:   "unknown betel answer",
			mutate: func(req *dto.AssessRiskRequest) { req.Subject.Betel = "sometimes" },
			check:  func(t *testing.T, err error) { testutil.RequireInvalidInput(t, err, "betel") },
		},
		{
			name: "unknown smoking status",
			mutate: func(req *dto.AssessRiskRequest) {
				s := "occasionally"
				req.Subject.Smoking = &s
			},
			check: func(t *testing.T, err error) { testutil.RequireInvalidInput(t, err, "smoking") },
		},
		{
			name:   "age out of range",
			mutate: func(req *dto.AssessRiskRequest) { req.Subject.Age = 0 },
			check:  func(t *testing.T, err error) { testutil.RequireInvalidInput(t, err, "age") },
		},
		{
			name:   "unknown model",
			mutate: func(req *dto.AssessRiskRequest) { req.ModelID = "diabetes-logistic-v2" },
			check:  func(t *testing.T, err error) { require.ErrorIs(t, err, service.ErrModelNotFound) },
		},
		{
			name:   "cardiovascular model without cardiovascular answers",
			mutate: func(req *dto.AssessRiskRequest) { req.ModelID = service.ModelCVDPointsV1 },
			check:  func(t *testing.T, err error) { require.True(t, service.IsUnsupportedModel(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &mockEventPublisher{}
			uc := newAssessRisk(t, publisher)

			req := dto.AssessRiskRequest{ModelID: service.ModelDiabetesScoreV0, Subject: graduateMale()}
			tt.mutate(&req)

			_, err := uc.Execute(context.Background(), req)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, publisher.publishedEvents)
		})
	}
}

func TestAssessRisk_Execute_PublishFailure(t *testing.T) {
	publisher := &mockEventPublisher{
		publishFunc: func(_ context.Context, _ ...interface{}) error {
			return errors.New("audit log unavailable")
		},
	}
	uc := newAssessRisk(t, publisher)

	_, err := uc.Execute(context.Background(), dto.AssessRiskRequest{Subject: graduateMale()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish events")
}

func TestAssessRisk_Execute_RecordsTelemetry(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	tel, err := usecase.NewTelemetry(mp.Meter("test"))
	require.NoError(t, err)

	engine := service.NewRiskEngine(service.DefaultCatalog())
	uc := usecase.NewAssessRisk(engine, &mockEventPublisher{}, tel, discardLogger(), service.ModelDiabetesScoreV0)

	ctx := context.Background()
	_, err = uc.Execute(ctx, dto.AssessRiskRequest{Subject: graduateMale()})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, dto.AssessRiskRequest{Subject: graduateMale()})
	require.NoError(t, err)

	bad := graduateMale()
	bad.Sex = ""
	_, err = uc.Execute(ctx, dto.AssessRiskRequest{Subject: bad})
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(2), sumCounter(t, rm, "riskcalc.assessments"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "riskcalc.assessment.failures"))

	ended := spans.Ended()
	require.Len(t, ended, 3)
	for _, s := range ended {
		assert.Equal(t, "riskcalc.assess", s.Name())
	}
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[2].Status().Code)
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}
