package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// RiskEngine evaluates input records against scoring models. It holds no mutable
// state; every method is a pure function of its arguments and the read-only catalog.
type RiskEngine struct {
	catalog *Catalog
}

// NewRiskEngine creates a RiskEngine over the given catalog.
func NewRiskEngine(catalog *Catalog) *RiskEngine {
	return &RiskEngine{catalog: catalog}
}

// Catalog returns the engine's model catalog.
func (e *RiskEngine) Catalog() *Catalog {
	return e.catalog
}

// DeriveMetrics returns BMI and WHR for the record. Directly supplied metrics are used
// as-is; otherwise BMI = weight / (height/100)^2 and WHR = waist / hip.
func (e *RiskEngine) DeriveMetrics(in model.InputRecord) (model.BodyMetrics, error) {
	var m model.BodyMetrics

	if bmi, ok := in.DirectBMI(); ok {
		m.BMI = bmi
	} else {
		if in.HeightCm() <= 0 {
			return model.BodyMetrics{}, &model.InvalidInputError{Field: "height_cm", Reason: "is required to derive BMI"}
		}
		if in.WeightKg() <= 0 {
			return model.BodyMetrics{}, &model.InvalidInputError{Field: "weight_kg", Reason: "is required to derive BMI"}
		}
		heightM := in.HeightCm() / 100
		m.BMI = in.WeightKg() / (heightM * heightM)
	}

	if whr, ok := in.DirectWHR(); ok {
		m.WHR = whr
	} else {
		if in.WaistCm() <= 0 {
			return model.BodyMetrics{}, &model.InvalidInputError{Field: "waist_cm", Reason: "is required to derive WHR"}
		}
		if in.HipCm() <= 0 {
			return model.BodyMetrics{}, &model.InvalidInputError{Field: "hip_cm", Reason: "is required to derive WHR"}
		}
		m.WHR = in.WaistCm() / in.HipCm()
	}

	return m, nil
}

// Evaluate scores the record under m. It fails with *model.UnsupportedModelError when m
// consults a factor the record lacks, and with *model.InvalidInputError when body metrics
// the model needs cannot be derived.
func (e *RiskEngine) Evaluate(in model.InputRecord, m model.ScoringModel) (model.RiskResult, error) {
	if err := m.Validate(); err != nil {
		return model.RiskResult{}, fmt.Errorf("invalid scoring model: %w", err)
	}

	var metrics model.BodyMetrics
	if m.Requires(model.FactorBMI) || m.Requires(model.FactorWHR) {
		derived, err := e.DeriveMetrics(in)
		if err != nil {
			return model.RiskResult{}, err
		}
		metrics = derived
	} else if derived, err := e.DeriveMetrics(in); err == nil {
		metrics = derived
	}

	values := make(map[model.Factor]float64, len(m.Terms))
	var missing []model.Factor
	for _, f := range m.RequiredFactors() {
		v, ok := factorValue(in, metrics, f)
		if !ok {
			missing = append(missing, f)
			continue
		}
		values[f] = v
	}
	if len(missing) > 0 {
		return model.RiskResult{}, &model.UnsupportedModelError{ModelID: m.ID, Missing: missing}
	}

	linear := m.Intercept
	contributions := make([]model.Contribution, 0, len(m.Terms))
	for _, t := range m.Terms {
		x := values[t.Factor]
		c := t.Contribution(x)
		linear += c
		contributions = append(contributions, model.Contribution{Factor: t.Factor, Input: x, Value: c})
	}

	value := m.Transform(linear)
	category := m.Categorize(value)

	return model.RiskResult{
		ModelID:         m.ID,
		ModelVersion:    m.Version,
		Link:            m.Link,
		Metrics:         metrics,
		LinearPredictor: linear,
		Value:           value,
		Category:        category,
		CategoryLabel:   m.Labels.Label(category),
		Contributions:   contributions,
	}, nil
}

// EvaluateByID resolves the model from the catalog and evaluates the record.
func (e *RiskEngine) EvaluateByID(in model.InputRecord, modelID string) (model.RiskResult, error) {
	m, err := e.catalog.Get(modelID)
	if err != nil {
		return model.RiskResult{}, err
	}
	return e.Evaluate(in, m)
}

// EvaluateCardiovascularPoints scores the record with the catalog's cardiovascular point system.
func (e *RiskEngine) EvaluateCardiovascularPoints(in model.InputRecord) (model.PointScoreResult, error) {
	m, err := e.catalog.Get(ModelCVDPointsV1)
	if err != nil {
		return model.PointScoreResult{}, err
	}
	if !m.Link.Equal(valueobject.LinkPoints) {
		return model.PointScoreResult{}, fmt.Errorf("model %s uses link %s, want points", m.ID, m.Link)
	}

	if _, ok := in.Cardiovascular(); !ok {
		return model.PointScoreResult{}, &model.UnsupportedModelError{ModelID: m.ID, Missing: missingCardiovascular(in)}
	}

	r, err := e.Evaluate(in, m)
	if err != nil {
		return model.PointScoreResult{}, err
	}

	return model.PointScoreResult{
		ModelID:       r.ModelID,
		ModelVersion:  r.ModelVersion,
		Points:        int(math.Round(r.Value)),
		Category:      r.Category,
		CategoryLabel: r.CategoryLabel,
		Contributions: r.Contributions,
	}, nil
}

// ProjectBMI evaluates the record twice: as given, and with BMI replaced by targetBMI.
func (e *RiskEngine) ProjectBMI(in model.InputRecord, m model.ScoringModel, targetBMI float64) (model.Projection, error) {
	if !m.Requires(model.FactorBMI) {
		return model.Projection{}, &model.UnsupportedModelError{ModelID: m.ID, Missing: []model.Factor{model.FactorBMI}}
	}

	baseline, err := e.Evaluate(in, m)
	if err != nil {
		return model.Projection{}, err
	}

	target, err := in.WithBMI(targetBMI)
	if err != nil {
		return model.Projection{}, err
	}
	projected, err := e.Evaluate(target, m)
	if err != nil {
		return model.Projection{}, err
	}

	return model.Projection{
		Baseline:  baseline,
		Projected: projected,
		TargetBMI: targetBMI,
	}, nil
}

// IsInvalidInput reports whether err carries a *model.InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *model.InvalidInputError
	return errors.As(err, &target)
}

// IsUnsupportedModel reports whether err carries a *model.UnsupportedModelError.
func IsUnsupportedModel(err error) bool {
	var target *model.UnsupportedModelError
	return errors.As(err, &target)
}

// IsModelNotFound reports whether err wraps ErrModelNotFound.
func IsModelNotFound(err error) bool {
	return errors.Is(err, ErrModelNotFound)
}

// factorValue maps a factor of the record to its numeric coding.
func factorValue(in model.InputRecord, metrics model.BodyMetrics, f model.Factor) (float64, bool) {
	switch f {
	case model.FactorAge:
		return float64(in.Age()), true
	case model.FactorSex:
		return in.Sex().Code(), true
	case model.FactorBMI:
		return metrics.BMI, metrics.BMI > 0
	case model.FactorWHR:
		return metrics.WHR, metrics.WHR > 0
	case model.FactorEducation:
		return float64(in.Education().Ordinal()), true
	case model.FactorFamilyHistory:
		return boolCode(in.FamilyHistory()), true
	case model.FactorBetel:
		return in.Betel().Code(), true
	case model.FactorSystolicBP:
		return in.SystolicBP()
	case model.FactorHDL:
		return in.HDL()
	case model.FactorSmoking:
		s, ok := in.Smoking()
		return s.Code(), ok
	case model.FactorDiabetes:
		d, ok := in.Diabetes()
		return boolCode(d), ok
	default:
		return 0, false
	}
}

// missingCardiovascular lists the cardiovascular answers the record lacks.
func missingCardiovascular(in model.InputRecord) []model.Factor {
	var missing []model.Factor
	if _, ok := in.Smoking(); !ok {
		missing = append(missing, model.FactorSmoking)
	}
	if _, ok := in.SystolicBP(); !ok {
		missing = append(missing, model.FactorSystolicBP)
	}
	if _, ok := in.Diabetes(); !ok {
		missing = append(missing, model.FactorDiabetes)
	}
	if _, ok := in.HDL(); !ok {
		missing = append(missing, model.FactorHDL)
	}
	return missing
}

func boolCode(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
