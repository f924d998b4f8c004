package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Disclaimer accompanies every assessment shown to a person.
const Disclaimer = "Results are for reference only and are not a diagnosis. " +
	"Please see a physician to confirm, especially if you have symptoms."

// Decimal places used for display values.
const (
	ProbabilityPlaces = 4
	ScorePlaces       = 2
)

// SubjectInput carries the raw, unparsed answers of one person.
// Zero values mean "not supplied" for measurements and direct metrics.
type SubjectInput struct {
	SystolicBP    *float64 `json:"systolic_bp,omitempty"`
	HDL           *float64 `json:"hdl,omitempty"`
	Smoking       *string  `json:"smoking,omitempty"`
	Diabetes      *bool    `json:"diabetes,omitempty"`
	Sex           string   `json:"sex"`
	Education     string   `json:"education"`
	Betel         string   `json:"betel"`
	HeightCm      float64  `json:"height_cm,omitempty"`
	WeightKg      float64  `json:"weight_kg,omitempty"`
	WaistCm       float64  `json:"waist_cm,omitempty"`
	HipCm         float64  `json:"hip_cm,omitempty"`
	BMI           float64  `json:"bmi,omitempty"`
	WHR           float64  `json:"whr,omitempty"`
	Age           int      `json:"age"`
	FamilyHistory bool     `json:"family_history"`
}

// AssessRiskRequest is the input DTO for the AssessRisk use case.
type AssessRiskRequest struct {
	ModelID   string       `json:"model_id"`
	Subject   SubjectInput `json:"subject"`
	TargetBMI float64      `json:"target_bmi,omitempty"`
}

// AssessCardiovascularRequest is the input DTO for the AssessCardiovascular use case.
type AssessCardiovascularRequest struct {
	Subject SubjectInput `json:"subject"`
}

// ContributionDTO is one factor's share of the score.
type ContributionDTO struct {
	Factor     string `json:"factor"`
	Input      string `json:"input"`
	Value      string `json:"value"`
	Modifiable bool   `json:"modifiable"`
}

// ProjectionDTO describes the effect of reaching the target BMI.
type ProjectionDTO struct {
	TargetBMI         string `json:"target_bmi"`
	ProjectedValue    string `json:"projected_value"`
	ProjectedCategory string `json:"projected_category"`
	Delta             string `json:"delta"`
}

// AssessmentResponse is the output DTO returned after a diabetes assessment.
type AssessmentResponse struct {
	AssessedAt         time.Time         `json:"assessed_at"`
	Projection         *ProjectionDTO    `json:"projection,omitempty"`
	ModelID            string            `json:"model_id"`
	ModelVersion       string            `json:"model_version"`
	ModelName          string            `json:"model_name"`
	Link               string            `json:"link"`
	Category           string            `json:"category"`
	CategoryLabel      string            `json:"category_label"`
	EducationBand      string            `json:"education_band,omitempty"`
	Value              string            `json:"value"`
	LinearPredictor    string            `json:"linear_predictor"`
	BMI                string            `json:"bmi"`
	WHR                string            `json:"whr"`
	ModifiableTotal    string            `json:"modifiable_total"`
	NonModifiableTotal string            `json:"non_modifiable_total"`
	Disclaimer         string            `json:"disclaimer"`
	Contributions      []ContributionDTO `json:"contributions"`
	ProgressPercent    int               `json:"progress_percent"`
	ID                 uuid.UUID         `json:"id"`
}

// PointScoreResponse is the output DTO of the cardiovascular point system.
type PointScoreResponse struct {
	AssessedAt      time.Time         `json:"assessed_at"`
	ModelID         string            `json:"model_id"`
	ModelVersion    string            `json:"model_version"`
	Category        string            `json:"category"`
	CategoryLabel   string            `json:"category_label"`
	Disclaimer      string            `json:"disclaimer"`
	Contributions   []ContributionDTO `json:"contributions"`
	Points          int               `json:"points"`
	ProgressPercent int               `json:"progress_percent"`
	ID              uuid.UUID         `json:"id"`
}

// ListModelsRequest is the input DTO for the ListModels use case.
type ListModelsRequest struct{}

// ModelSummary describes one catalog entry.
type ModelSummary struct {
	ID       string   `json:"id"`
	Version  string   `json:"version"`
	Name     string   `json:"name"`
	Citation string   `json:"citation,omitempty"`
	Link     string   `json:"link"`
	Cutoffs  string   `json:"cutoffs"`
	Factors  []string `json:"factors"`
}

// ProgressScale is the value that fills the progress bar for a link function.
// Point models top out at the sum of their largest bands.
func ProgressScale(link valueobject.LinkFunction) float64 {
	switch {
	case link.Equal(valueobject.LinkLogistic):
		return 1
	case link.Equal(valueobject.LinkLinearScore):
		return 15
	case link.Equal(valueobject.LinkPoints):
		return 16
	default:
		return 0
	}
}

func valuePlaces(link valueobject.LinkFunction) int32 {
	if link.Equal(valueobject.LinkLogistic) {
		return ProbabilityPlaces
	}
	return ScorePlaces
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FromResult maps an evaluation to the response DTO.
func FromResult(id uuid.UUID, m model.ScoringModel, r model.RiskResult, assessedAt time.Time) AssessmentResponse {
	places := valuePlaces(r.Link)
	return AssessmentResponse{
		ID:                 id,
		ModelID:            r.ModelID,
		ModelVersion:       r.ModelVersion,
		ModelName:          m.Name,
		Link:               r.Link.String(),
		Category:           r.Category.String(),
		CategoryLabel:      r.CategoryLabel,
		Value:              fixed(r.Value, places),
		LinearPredictor:    fixed(r.LinearPredictor, ProbabilityPlaces),
		BMI:                fixed(r.Metrics.BMI, ScorePlaces),
		WHR:                fixed(r.Metrics.WHR, ScorePlaces),
		ModifiableTotal:    fixed(r.ModifiableTotal(), ScorePlaces),
		NonModifiableTotal: fixed(r.NonModifiableTotal(), ScorePlaces),
		ProgressPercent:    r.ProgressPercent(ProgressScale(r.Link)),
		Contributions:      fromContributions(r.Contributions),
		Disclaimer:         Disclaimer,
		AssessedAt:         assessedAt,
	}
}

// FromProjection maps a BMI projection to its DTO.
func FromProjection(p model.Projection) *ProjectionDTO {
	places := valuePlaces(p.Projected.Link)
	return &ProjectionDTO{
		TargetBMI:         fixed(p.TargetBMI, 1),
		ProjectedValue:    fixed(p.Projected.Value, places),
		ProjectedCategory: p.Projected.Category.String(),
		Delta:             fixed(p.Delta(), places),
	}
}

// FromPointScore maps a cardiovascular point result to the response DTO.
func FromPointScore(id uuid.UUID, r model.PointScoreResult, assessedAt time.Time) PointScoreResponse {
	pct := int(float64(r.Points) / ProgressScale(valueobject.LinkPoints) * 100)
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return PointScoreResponse{
		ID:              id,
		ModelID:         r.ModelID,
		ModelVersion:    r.ModelVersion,
		Category:        r.Category.String(),
		CategoryLabel:   r.CategoryLabel,
		Points:          r.Points,
		ProgressPercent: pct,
		Contributions:   fromContributions(r.Contributions),
		Disclaimer:      Disclaimer,
		AssessedAt:      assessedAt,
	}
}

// FromModel maps a scoring model to its catalog summary.
func FromModel(m model.ScoringModel) ModelSummary {
	factors := m.RequiredFactors()
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = string(f)
	}

	cutoffs := "high>=" + decimal.NewFromFloat(m.Cutoffs.High).String()
	if m.Cutoffs.Moderate != nil {
		cutoffs = "moderate>=" + decimal.NewFromFloat(*m.Cutoffs.Moderate).String() + " " + cutoffs
	}

	return ModelSummary{
		ID:       m.ID,
		Version:  m.Version,
		Name:     m.Name,
		Citation: m.Citation,
		Link:     m.Link.String(),
		Cutoffs:  cutoffs,
		Factors:  names,
	}
}

func fromContributions(cs []model.Contribution) []ContributionDTO {
	out := make([]ContributionDTO, len(cs))
	for i, c := range cs {
		out[i] = ContributionDTO{
			Factor:     string(c.Factor),
			Input:      decimal.NewFromFloat(c.Input).String(),
			Value:      fixed(c.Value, ScorePlaces),
			Modifiable: c.Modifiable(),
		}
	}
	return out
}
