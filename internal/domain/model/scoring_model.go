package model

import (
	"fmt"
	"math"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Factor names a risk factor a model can consult.
type Factor string

const (
	FactorAge           Factor = "age"
	FactorSex           Factor = "sex"
	FactorBMI           Factor = "bmi"
	FactorWHR           Factor = "whr"
	FactorEducation     Factor = "education"
	FactorFamilyHistory Factor = "family_history"
	FactorBetel         Factor = "betel"
	FactorSystolicBP    Factor = "systolic_bp"
	FactorHDL           Factor = "hdl"
	FactorSmoking       Factor = "smoking"
	FactorDiabetes      Factor = "diabetes"
)

var knownFactors = map[Factor]bool{
	FactorAge: true, FactorSex: true, FactorBMI: true, FactorWHR: true,
	FactorEducation: true, FactorFamilyHistory: true, FactorBetel: true,
	FactorSystolicBP: true, FactorHDL: true, FactorSmoking: true, FactorDiabetes: true,
}

// Modifiable reports whether the person can change the factor through lifestyle.
func (f Factor) Modifiable() bool {
	switch f {
	case FactorAge, FactorSex, FactorFamilyHistory, FactorDiabetes:
		return false
	default:
		return true
	}
}

// Coding says how a factor value becomes a term contribution.
type Coding string

const (
	// CodingIdentity contributes Beta * value.
	CodingIdentity Coding = "identity"
	// CodingIndicator contributes Beta when the value is one of Levels.
	CodingIndicator Coding = "indicator"
	// CodingStep contributes Beta when the value is at or above Threshold.
	CodingStep Coding = "step"
	// CodingSaturating contributes Beta * value/Threshold, capped at Beta.
	CodingSaturating Coding = "saturating"
	// CodingBands contributes the points of the first matching band.
	CodingBands Coding = "bands"
)

// Band is one rule of a banded factor. A band matches value >= Threshold, or
// value < Threshold when Below is set.
type Band struct {
	Threshold float64
	Points    float64
	Below     bool
}

func (b Band) matches(v float64) bool {
	if b.Below {
		return v < b.Threshold
	}
	return v >= b.Threshold
}

// Term is one row of a coefficient table.
type Term struct {
	Factor    Factor
	Coding    Coding
	Levels    []float64
	Bands     []Band
	Beta      float64
	Threshold float64
}

// Contribution returns the term's contribution to the linear predictor for value x.
func (t Term) Contribution(x float64) float64 {
	switch t.Coding {
	case CodingIdentity:
		return t.Beta * x
	case CodingIndicator:
		for _, level := range t.Levels {
			if x == level {
				return t.Beta
			}
		}
		return 0
	case CodingStep:
		if x >= t.Threshold {
			return t.Beta
		}
		return 0
	case CodingSaturating:
		if x >= t.Threshold {
			return t.Beta
		}
		return (x / t.Threshold) * t.Beta
	case CodingBands:
		for _, b := range t.Bands {
			if b.matches(x) {
				return b.Points
			}
		}
		return 0
	default:
		return 0
	}
}

func (t Term) validate() error {
	if !knownFactors[t.Factor] {
		return fmt.Errorf("unknown factor %q", t.Factor)
	}
	switch t.Coding {
	case CodingIdentity, CodingStep:
	case CodingIndicator:
		if len(t.Levels) == 0 {
			return fmt.Errorf("factor %s: indicator coding needs at least one level", t.Factor)
		}
	case CodingSaturating:
		if t.Threshold <= 0 {
			return fmt.Errorf("factor %s: saturation threshold must be positive, got %g", t.Factor, t.Threshold)
		}
	case CodingBands:
		if len(t.Bands) == 0 {
			return fmt.Errorf("factor %s: bands coding needs at least one band", t.Factor)
		}
		if err := validateBandOrder(t.Bands); err != nil {
			return fmt.Errorf("factor %s: %w", t.Factor, err)
		}
	default:
		return fmt.Errorf("factor %s: unknown coding %q", t.Factor, t.Coding)
	}
	return nil
}

// validateBandOrder requires at-or-above bands in strictly descending threshold order
// and below bands in strictly ascending order, so the first match is the most severe.
func validateBandOrder(bands []Band) error {
	lastAbove, lastBelow := math.Inf(1), math.Inf(-1)
	for i, b := range bands {
		if b.Below {
			if b.Threshold <= lastBelow {
				return fmt.Errorf("band %d: below-thresholds must ascend", i)
			}
			lastBelow = b.Threshold
			continue
		}
		if b.Threshold >= lastAbove {
			return fmt.Errorf("band %d: thresholds must descend", i)
		}
		lastAbove = b.Threshold
	}
	return nil
}

// Cutoffs are the category boundaries of a model, compared with >=.
// Moderate is nil for two-state models.
type Cutoffs struct {
	Moderate *float64
	High     float64
}

// CategoryLabels are the display labels a model attaches to each category.
type CategoryLabels struct {
	Low      string
	Moderate string
	High     string
}

// Label returns the label for c.
func (l CategoryLabels) Label(c valueobject.RiskCategory) string {
	switch {
	case c.Equal(valueobject.RiskCategoryHigh):
		return l.High
	case c.Equal(valueobject.RiskCategoryModerate):
		return l.Moderate
	case c.Equal(valueobject.RiskCategoryLow):
		return l.Low
	default:
		return ""
	}
}

// ScoringModel is a named, versioned coefficient table. Models are built once at
// startup and treated as read-only afterwards; use Clone before altering a copy.
type ScoringModel struct {
	Cutoffs   Cutoffs
	Link      valueobject.LinkFunction
	Labels    CategoryLabels
	ID        string
	Version   string
	Name      string
	Citation  string
	Terms     []Term
	Intercept float64
}

// Validate checks the table for internal consistency.
func (m ScoringModel) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("model ID is required")
	}
	if m.Link.IsZero() {
		return fmt.Errorf("model %s: link function is required", m.ID)
	}
	if len(m.Terms) == 0 {
		return fmt.Errorf("model %s: at least one term is required", m.ID)
	}
	for _, t := range m.Terms {
		if err := t.validate(); err != nil {
			return fmt.Errorf("model %s: %w", m.ID, err)
		}
	}
	if m.Link.Equal(valueobject.LinkLogistic) {
		if m.Cutoffs.High <= 0 || m.Cutoffs.High >= 1 {
			return fmt.Errorf("model %s: probability cutoff must be in (0, 1), got %g", m.ID, m.Cutoffs.High)
		}
		if m.Cutoffs.Moderate != nil {
			return fmt.Errorf("model %s: logistic models use a single cutoff", m.ID)
		}
	}
	if m.Cutoffs.Moderate != nil && *m.Cutoffs.Moderate >= m.Cutoffs.High {
		return fmt.Errorf("model %s: moderate cutoff %g must be below high cutoff %g",
			m.ID, *m.Cutoffs.Moderate, m.Cutoffs.High)
	}
	return nil
}

// RequiredFactors lists the factors the model consults, in term order, without duplicates.
func (m ScoringModel) RequiredFactors() []Factor {
	seen := make(map[Factor]bool, len(m.Terms))
	out := make([]Factor, 0, len(m.Terms))
	for _, t := range m.Terms {
		if !seen[t.Factor] {
			seen[t.Factor] = true
			out = append(out, t.Factor)
		}
	}
	return out
}

// Requires reports whether the model consults f.
func (m ScoringModel) Requires(f Factor) bool {
	for _, t := range m.Terms {
		if t.Factor == f {
			return true
		}
	}
	return false
}

// Transform applies the link function to the linear predictor.
func (m ScoringModel) Transform(linear float64) float64 {
	if m.Link.Equal(valueobject.LinkLogistic) {
		return 1 / (1 + math.Exp(-linear))
	}
	return linear
}

// Categorize maps a transformed value to a category. Boundaries are inclusive.
func (m ScoringModel) Categorize(value float64) valueobject.RiskCategory {
	switch {
	case value >= m.Cutoffs.High:
		return valueobject.RiskCategoryHigh
	case m.Cutoffs.Moderate != nil && value >= *m.Cutoffs.Moderate:
		return valueobject.RiskCategoryModerate
	default:
		return valueobject.RiskCategoryLow
	}
}

// Clone returns a deep copy of the model.
func (m ScoringModel) Clone() ScoringModel {
	out := m
	if m.Cutoffs.Moderate != nil {
		v := *m.Cutoffs.Moderate
		out.Cutoffs.Moderate = &v
	}
	out.Terms = make([]Term, len(m.Terms))
	for i, t := range m.Terms {
		t.Levels = append([]float64(nil), t.Levels...)
		t.Bands = append([]Band(nil), t.Bands...)
		out.Terms[i] = t
	}
	return out
}
