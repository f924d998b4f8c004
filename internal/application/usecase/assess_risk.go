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
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/port"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// AssessRisk is the use case for scoring a person under one diabetes model.
type AssessRisk struct {
	engine       *service.RiskEngine
	publisher    port.EventPublisher
	telemetry    *Telemetry
	logger       *slog.Logger
	defaultModel string
}

// NewAssessRisk creates a new AssessRisk use case. defaultModel is used when the
// request names no model.
func NewAssessRisk(
	engine *service.RiskEngine,
	publisher port.EventPublisher,
	telemetry *Telemetry,
	logger *slog.Logger,
	defaultModel string,
) *AssessRisk {
	return &AssessRisk{
		engine:       engine,
		publisher:    publisher,
		telemetry:    telemetry,
		logger:       logger,
		defaultModel: defaultModel,
	}
}

// Execute builds the input record, evaluates it, projects the target BMI when asked,
// and publishes the outcome.
func (uc *AssessRisk) Execute(ctx context.Context, req dto.AssessRiskRequest) (dto.AssessmentResponse, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = uc.defaultModel
	}

	ctx, span := uc.telemetry.start(ctx, "riskcalc.assess", attribute.String("model.id", modelID))
	defer span.End()

	// 1. Parse and validate the answers.
	rec, err := buildInputRecord(req.Subject)
	if err != nil {
		return dto.AssessmentResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to build input record: %w", err))
	}

	// 2. Resolve the model and evaluate.
	m, err := uc.engine.Catalog().Get(modelID)
	if err != nil {
		return dto.AssessmentResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to resolve model: %w", err))
	}

	result, err := uc.engine.Evaluate(rec, m)
	if err != nil {
		return dto.AssessmentResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to evaluate model %s: %w", modelID, err))
	}

	id := uuid.New()
	assessedAt := time.Now().UTC()
	resp := dto.FromResult(id, m, result, assessedAt)
	resp.EducationBand = rec.Education().Band()

	// 3. Optional weight-loss projection.
	if req.TargetBMI > 0 && m.Requires(model.FactorBMI) {
		projection, err := uc.engine.ProjectBMI(rec, m, req.TargetBMI)
		if err != nil {
			return dto.AssessmentResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
				fmt.Errorf("failed to project BMI: %w", err))
		}
		resp.Projection = dto.FromProjection(projection)
	}

	span.SetAttributes(
		attribute.String("assessment.id", id.String()),
		attribute.String("risk.category", result.Category.String()),
		attribute.Float64("risk.value", result.Value),
	)
	uc.telemetry.recordSuccess(ctx, modelID, result.Category.String(), result.Value)

	// 4. Publish domain events.
	events := []interface{}{event.RiskAssessed{
		AssessmentID: id,
		ModelID:      result.ModelID,
		ModelVersion: result.ModelVersion,
		Category:     result.Category.String(),
		Value:        result.Value,
		AssessedAt:   assessedAt,
	}}
	if result.Category.AtLeast(valueobject.RiskCategoryHigh) {
		events = append(events, event.HighRiskFlagged{
			AssessmentID: id,
			ModelID:      result.ModelID,
			Label:        result.CategoryLabel,
			Value:        result.Value,
			FlaggedAt:    assessedAt,
		})
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.AssessmentResponse{}, uc.telemetry.recordFailure(ctx, span, modelID,
			fmt.Errorf("failed to publish events: %w", err))
	}

	uc.logger.InfoContext(ctx, "risk assessed",
		slog.String("assessment_id", id.String()),
		slog.String("model", modelID),
		slog.String("category", result.Category.String()),
		slog.Float64("value", result.Value),
	)

	return resp, nil
}
