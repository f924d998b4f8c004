package model

import (
	"math"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Contribution is one factor's share of the linear predictor.
type Contribution struct {
	Factor Factor
	Input  float64
	Value  float64
}

// Modifiable reports whether the contribution comes from a modifiable factor.
func (c Contribution) Modifiable() bool {
	return c.Factor.Modifiable()
}

// RiskResult is the disposable output of one evaluation.
type RiskResult struct {
	Category        valueobject.RiskCategory
	Link            valueobject.LinkFunction
	ModelID         string
	ModelVersion    string
	CategoryLabel   string
	Contributions   []Contribution
	Metrics         BodyMetrics
	LinearPredictor float64
	Value           float64
}

// Contribution returns the contribution of factor f, if the model consulted it.
func (r RiskResult) Contribution(f Factor) (float64, bool) {
	for _, c := range r.Contributions {
		if c.Factor == f {
			return c.Value, true
		}
	}
	return 0, false
}

// ModifiableTotal sums the contributions of modifiable factors.
func (r RiskResult) ModifiableTotal() float64 {
	var total float64
	for _, c := range r.Contributions {
		if c.Modifiable() {
			total += c.Value
		}
	}
	return total
}

// NonModifiableTotal sums the contributions of factors the person cannot change.
func (r RiskResult) NonModifiableTotal() float64 {
	var total float64
	for _, c := range r.Contributions {
		if !c.Modifiable() {
			total += c.Value
		}
	}
	return total
}

// ProgressPercent expresses Value as a whole percentage of scale, clamped to [0, 100].
func (r RiskResult) ProgressPercent(scale float64) int {
	if scale <= 0 {
		return 0
	}
	pct := int(r.Value / scale * 100)
	return int(math.Max(0, math.Min(100, float64(pct))))
}

// PointScoreResult is the output of the cardiovascular point system.
type PointScoreResult struct {
	Category      valueobject.RiskCategory
	ModelID       string
	ModelVersion  string
	CategoryLabel string
	Contributions []Contribution
	Points        int
}

// Projection compares a baseline evaluation with one where BMI is set to a target.
type Projection struct {
	Baseline  RiskResult
	Projected RiskResult
	TargetBMI float64
}

// Delta is the change in reported value when moving from baseline to the target BMI.
func (p Projection) Delta() float64 {
	return p.Projected.Value - p.Baseline.Value
}
