package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/event"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/port"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// AssessCardiovascular is the use case for the cardiovascular point system.
type AssessCardiovascular struct {
	engine    *service.RiskEngine
	publisher port.EventPublisher
	telemetry *Telemetry
	logger    *slog.Logger
}

// NewAssessCardiovascular creates a new AssessCardiovascular use case.
func NewAssessCardiovascular(
	engine *service.RiskEngine,
	publisher port.EventPublisher,
	telemetry *Telemetry,
	logger *slog.Logger,
) *AssessCardiovascular {
	return &AssessCardiovascular{
		engine:    engine,
		publisher: publisher,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Execute scores the record with the point system and publishes the outcome.
func (uc *AssessCardiovascular) Execute(ctx context.Context, req dto.AssessCardiovascularRequest) (dto.PointScoreResponse, error) {
	modelID := service.ModelCVDPointsV1

	ctx, span := uc.telemetry.start(ctx, "riskcalc.assess", attribute.String("model.id", modelID))
	defer span.End()

	rec, err := buildInputRecord(req.Subject)
	if err != nil {
		return dto.PointScoreResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to build input record: %w", err))
	}

	result, err := uc.engine.EvaluateCardiovascularPoints(rec)
	if err != nil {
		return dto.PointScoreResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to evaluate cardiovascular points: %w", err))
	}

	id := uuid.New()
	assessedAt := time.Now().UTC()

	span.SetAttributes(
		attribute.String("assessment.id", id.String()),
		attribute.String("risk.category", result.Category.String()),
		attribute.Int("risk.points", result.Points),
	)
	uc.telemetry.recordSuccess(ctx, modelID, result.Category.String(), float64(result.Points))

	events := []interface{}{event.RiskAssessed{
		AssessmentID: id,
		ModelID:      result.ModelID,
		ModelVersion: result.ModelVersion,
		Category:     result.Category.String(),
		Value:        float64(result.Points),
		AssessedAt:   assessedAt,
	}}
	if result.Category.AtLeast(valueobject.RiskCategoryHigh) {
		events = append(events, event.HighRiskFlagged{
			AssessmentID: id,
			ModelID:      result.ModelID,
			Label:        result.CategoryLabel,
			Value:        float64(result.Points),
			FlaggedAt:    assessedAt,
		})
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.PointScoreResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to publish events: %w", err))
	}

	uc.logger.InfoContext(ctx, "cardiovascular points assessed",
		slog.String("assessment_id", id.String()),
		slog.Int("points", result.Points),
		slog.String("category", result.Category.String()),
	)

	return dto.FromPointScore(id, result, assessedAt), nil
}
