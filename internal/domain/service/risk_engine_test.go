package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
	"github.com/wacky6382/diabetes-risk-calculator/pkg/testutil"
)

func newEngine() *service.RiskEngine {
	return service.NewRiskEngine(service.DefaultCatalog())
}

func TestRiskEngine_DeriveMetrics(t *testing.T) {
	engine := newEngine()

	p := testutil.GraduateMaleParams()
	p.BMI, p.WHR = 0, 0
	p.HeightCm, p.WeightKg = 170, 78.2
	p.WaistCm, p.HipCm = 89, 100

	metrics, err := engine.DeriveMetrics(testutil.MustInputRecord(t, p))
	require.NoError(t, err)

	assert.InDelta(t, 78.2/(1.7*1.7), metrics.BMI, 1e-9)
	assert.InDelta(t, 0.89, metrics.WHR, 1e-9)
}

func TestRiskEngine_DeriveMetrics_DirectMetricsSkipDerivation(t *testing.T) {
	engine := newEngine()

	metrics, err := engine.DeriveMetrics(testutil.MustInputRecord(t, testutil.GraduateMaleParams()))
	require.NoError(t, err)

	assert.Equal(t, testutil.ReferenceBMI, metrics.BMI)
	assert.Equal(t, testutil.ReferenceWHR, metrics.WHR)
}

func TestRiskEngine_DeriveMetrics_MissingMeasurements(t *testing.T) {
	engine := newEngine()

	tests := []struct {
		name   string
		mutate func(p *model.InputParams)
		field  string
	}{
		{"no height", func(p *model.InputParams) { p.BMI, p.WeightKg = 0, 70 }, "height_cm"},
		{"no weight", func(p *model.InputParams) { p.BMI, p.HeightCm = 0, 170 }, "weight_kg"},
		{"no waist", func(p *model.InputParams) { p.WHR, p.HipCm = 0, 100 }, "waist_cm"},
		{"no hip", func(p *model.InputParams) { p.WHR, p.WaistCm = 0, 90 }, "hip_cm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.GraduateMaleParams()
			tt.mutate(&p)

			_, err := engine.DeriveMetrics(testutil.MustInputRecord(t, p))
			testutil.RequireInvalidInput(t, err, tt.field)
		})
	}
}

func TestRiskEngine_DeriveMetrics_AlwaysPositive(t *testing.T) {
	engine := newEngine()

	for _, h := range []float64{100, 150, 250} {
		for _, w := range []float64{30, 90, 200} {
			for _, waist := range []float64{50, 100, 150} {
				for _, hip := range []float64{50, 100, 150} {
					p := testutil.GraduateMaleParams()
					p.BMI, p.WHR = 0, 0
					p.HeightCm, p.WeightKg, p.WaistCm, p.HipCm = h, w, waist, hip

					metrics, err := engine.DeriveMetrics(testutil.MustInputRecord(t, p))
					require.NoError(t, err)
					assert.Greater(t, metrics.BMI, 0.0)
					assert.Greater(t, metrics.WHR, 0.0)
				}
			}
		}
	}
}

func TestRiskEngine_LogisticScenario(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	result, err := engine.EvaluateByID(rec, service.ModelDiabetesLogisticV1)
	require.NoError(t, err)

	// -12.935 + 0.046*38 - 0.215 + 0.132*27.06 + 4.950*0.89 - 0.071*7
	assert.InDelta(t, -3.9215, result.LinearPredictor, 1e-3)
	assert.InDelta(t, 1/(1+math.Exp(3.9215)), result.Value, 1e-4)
	assert.True(t, result.Category.Equal(valueobject.RiskCategoryHigh))
	assert.Equal(t, "above cutoff", result.CategoryLabel)
	assert.Equal(t, service.ModelDiabetesLogisticV1, result.ModelID)

	edu, ok := result.Contribution(model.FactorEducation)
	require.True(t, ok)
	assert.InDelta(t, -0.497, edu, 1e-9)

	family, ok := result.Contribution(model.FactorFamilyHistory)
	require.True(t, ok)
	assert.Equal(t, 0.0, family)
}

func TestRiskEngine_LogisticCutoffIsInclusive(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	m := service.DiabetesLogisticV1()
	baseline, err := engine.Evaluate(rec, m)
	require.NoError(t, err)

	// Move the cutoff onto the exact probability the record produces.
	m.Cutoffs.High = baseline.Value
	atCutoff, err := engine.Evaluate(rec, m)
	require.NoError(t, err)
	assert.True(t, atCutoff.Category.Equal(valueobject.RiskCategoryHigh))

	m.Cutoffs.High = math.Nextafter(baseline.Value, 1)
	aboveCutoff, err := engine.Evaluate(rec, m)
	require.NoError(t, err)
	assert.True(t, aboveCutoff.Category.Equal(valueobject.RiskCategoryLow))
	assert.Equal(t, "below cutoff", aboveCutoff.CategoryLabel)
}

func TestRiskEngine_LogisticMonotonicInBodyMetrics(t *testing.T) {
	engine := newEngine()
	m := service.DiabetesLogisticV1()

	prev := math.Inf(-1)
	for bmi := model.MinBMI; bmi <= model.MaxBMI; bmi += 2.5 {
		p := testutil.GraduateMaleParams()
		p.BMI = bmi
		r, err := engine.Evaluate(testutil.MustInputRecord(t, p), m)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.LinearPredictor, prev, "BMI %.1f", bmi)
		prev = r.LinearPredictor
	}

	prev = math.Inf(-1)
	for whr := model.MinWHR; whr <= model.MaxWHR; whr += 0.05 {
		p := testutil.GraduateMaleParams()
		p.WHR = whr
		r, err := engine.Evaluate(testutil.MustInputRecord(t, p), m)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.LinearPredictor, prev, "WHR %.2f", whr)
		prev = r.LinearPredictor
	}
}

func TestRiskEngine_ScoreScenario(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	result, err := engine.EvaluateByID(rec, service.ModelDiabetesScoreV0)
	require.NoError(t, err)

	// -0.22 + 1.76 + 0 - 0.50 + 4.41 + 3.59 + 0
	assert.InDelta(t, 9.04, result.Value, 1e-9)
	assert.Equal(t, result.LinearPredictor, result.Value)
	assert.True(t, result.Category.Equal(valueobject.RiskCategoryModerate))
	assert.Equal(t, "moderate risk", result.CategoryLabel)

	whr, _ := result.Contribution(model.FactorWHR)
	bmi, _ := result.Contribution(model.FactorBMI)
	assert.InDelta(t, 4.41, whr, 1e-9)
	assert.InDelta(t, 3.59, bmi, 1e-9)
	assert.InDelta(t, 1.54, result.NonModifiableTotal(), 1e-9)
}

func TestRiskEngine_ScoreSaturation(t *testing.T) {
	engine := newEngine()
	p := testutil.GraduateMaleParams()
	p.WHR = 0.70

	result, err := engine.EvaluateByID(testutil.MustInputRecord(t, p), service.ModelDiabetesScoreV0)
	require.NoError(t, err)

	whr, ok := result.Contribution(model.FactorWHR)
	require.True(t, ok)
	assert.InDelta(t, 3.4685, whr, 1e-3)
	assert.Less(t, whr, 4.41)
}

func TestRiskEngine_ScoreCategories(t *testing.T) {
	engine := newEngine()

	tests := []struct {
		name     string
		mutate   func(p *model.InputParams)
		expected valueobject.RiskCategory
		label    string
	}{
		{
			name:     "young and lean is no immediate risk",
			mutate:   func(p *model.InputParams) { p.Age, p.BMI, p.WHR = 25, 20, 0.75 },
			expected: valueobject.RiskCategoryLow,
			label:    "no immediate risk",
		},
		{
			name: "family history and betel push to high",
			mutate: func(p *model.InputParams) {
				p.FamilyHistory = true
				p.Betel = valueobject.BetelFormer
			},
			expected: valueobject.RiskCategoryHigh,
			label:    "high risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.GraduateMaleParams()
			tt.mutate(&p)

			result, err := engine.EvaluateByID(testutil.MustInputRecord(t, p), service.ModelDiabetesScoreV0)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result.Category), "got %s for score %.2f", result.Category, result.Value)
			assert.Equal(t, tt.label, result.CategoryLabel)
		})
	}
}

func TestRiskEngine_Idempotent(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.CardiovascularParams())

	for _, id := range service.DefaultCatalog().IDs() {
		t.Run(id, func(t *testing.T) {
			first, err := engine.EvaluateByID(rec, id)
			require.NoError(t, err)
			second, err := engine.EvaluateByID(rec, id)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestRiskEngine_CardiovascularPoints(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.CardiovascularParams())

	result, err := engine.EvaluateCardiovascularPoints(rec)
	require.NoError(t, err)

	// age 62 (+4), current smoker (+3), SBP 150 (+3), no diabetes (0), HDL 35 (+2)
	assert.Equal(t, 12, result.Points)
	assert.True(t, result.Category.Equal(valueobject.RiskCategoryHigh))
	assert.Equal(t, "high risk", result.CategoryLabel)
	assert.Len(t, result.Contributions, 5)
}

func TestRiskEngine_CardiovascularBands(t *testing.T) {
	engine := newEngine()

	tests := []struct {
		name     string
		mutate   func(p *model.InputParams)
		points   int
		expected valueobject.RiskCategory
	}{
		{
			name: "nothing applies",
			mutate: func(p *model.InputParams) {
				p.Age = 45
				p.Smoking = testutil.Smoking(valueobject.SmokingNever)
				p.SystolicBP = testutil.Float(120)
				p.HDL = testutil.Float(55)
			},
			points:   0,
			expected: valueobject.RiskCategoryLow,
		},
		{
			name: "lower age band only",
			mutate: func(p *model.InputParams) {
				p.Age = 50
				p.Smoking = testutil.Smoking(valueobject.SmokingFormer)
				p.SystolicBP = testutil.Float(139)
				p.HDL = testutil.Float(40)
			},
			points:   2,
			expected: valueobject.RiskCategoryLow,
		},
		{
			name: "moderate at first cutoff",
			mutate: func(p *model.InputParams) {
				p.Age = 55
				p.Smoking = testutil.Smoking(valueobject.SmokingNever)
				p.SystolicBP = testutil.Float(120)
				p.HDL = testutil.Float(39)
			},
			points:   4,
			expected: valueobject.RiskCategoryModerate,
		},
		{
			name: "top SBP band and diabetes",
			mutate: func(p *model.InputParams) {
				p.Age = 40
				p.Smoking = testutil.Smoking(valueobject.SmokingNever)
				p.SystolicBP = testutil.Float(160)
				p.HDL = testutil.Float(60)
				p.Diabetes = testutil.Bool(true)
			},
			points:   7,
			expected: valueobject.RiskCategoryHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.CardiovascularParams()
			tt.mutate(&p)

			result, err := engine.EvaluateCardiovascularPoints(testutil.MustInputRecord(t, p))
			require.NoError(t, err)
			assert.Equal(t, tt.points, result.Points)
			assert.True(t, tt.expected.Equal(result.Category), "got %s", result.Category)
		})
	}
}

func TestRiskEngine_CardiovascularWithoutExtension(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	_, err := engine.EvaluateByID(rec, service.ModelCVDPointsV1)
	testutil.RequireUnsupportedModel(t, err,
		model.FactorSmoking, model.FactorSystolicBP, model.FactorDiabetes, model.FactorHDL)
	assert.True(t, service.IsUnsupportedModel(err))
	assert.False(t, service.IsInvalidInput(err))

	_, err = engine.EvaluateCardiovascularPoints(rec)
	testutil.RequireUnsupportedModel(t, err, model.FactorHDL)
}

func TestRiskEngine_CardiovascularPartialExtension(t *testing.T) {
	engine := newEngine()
	p := testutil.CardiovascularParams()
	p.Diabetes = nil

	_, err := engine.EvaluateCardiovascularPoints(testutil.MustInputRecord(t, p))
	var unsupported *model.UnsupportedModelError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, service.ModelCVDPointsV1, unsupported.ModelID)
	assert.Equal(t, []model.Factor{model.FactorDiabetes}, unsupported.Missing)
}

func TestRiskEngine_NonFiniteAnswersAreInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.InputParams)
		field  string
	}{
		{
			name: "NaN height",
			mutate: func(p *model.InputParams) {
				p.BMI = 0
				p.HeightCm, p.WeightKg = math.NaN(), 80
			},
			field: "height_cm",
		},
		{
			name:   "NaN direct BMI",
			mutate: func(p *model.InputParams) { p.BMI = math.NaN() },
			field:  "bmi",
		},
		{
			name:   "NaN systolic pressure",
			mutate: func(p *model.InputParams) { p.SystolicBP = testutil.Float(math.NaN()) },
			field:  "systolic_bp",
		},
		{
			name:   "infinite HDL",
			mutate: func(p *model.InputParams) { p.HDL = testutil.Float(math.Inf(1)) },
			field:  "hdl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.CardiovascularParams()
			tt.mutate(&p)

			_, err := model.NewInputRecord(p)
			require.Error(t, err)
			assert.True(t, service.IsInvalidInput(err))
			assert.False(t, service.IsUnsupportedModel(err))
			testutil.RequireInvalidInput(t, err, tt.field)
		})
	}
}

func TestRiskEngine_CardiovascularIgnoresMissingBodyMetrics(t *testing.T) {
	engine := newEngine()
	p := testutil.CardiovascularParams()
	p.BMI, p.WHR = 0, 0

	result, err := engine.EvaluateCardiovascularPoints(testutil.MustInputRecord(t, p))
	require.NoError(t, err)
	assert.Equal(t, 12, result.Points)
}

func TestRiskEngine_DiabetesModelsNeedBodyMetrics(t *testing.T) {
	engine := newEngine()
	p := testutil.GraduateMaleParams()
	p.BMI = 0

	_, err := engine.EvaluateByID(testutil.MustInputRecord(t, p), service.ModelDiabetesLogisticV1)
	testutil.RequireInvalidInput(t, err, "height_cm")
}

func TestRiskEngine_UnknownModel(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	_, err := engine.EvaluateByID(rec, "diabetes-logistic-v9")
	require.ErrorIs(t, err, service.ErrModelNotFound)
}

func TestRiskEngine_ProjectBMI(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	for _, id := range []string{service.ModelDiabetesLogisticV1, service.ModelDiabetesScoreV0} {
		t.Run(id, func(t *testing.T) {
			m, err := engine.Catalog().Get(id)
			require.NoError(t, err)

			projection, err := engine.ProjectBMI(rec, m, 24)
			require.NoError(t, err)

			assert.Equal(t, 24.0, projection.Projected.Metrics.BMI)
			assert.Equal(t, testutil.ReferenceBMI, projection.Baseline.Metrics.BMI)
			assert.LessOrEqual(t, projection.Delta(), 0.0)
		})
	}

	cvd, err := engine.Catalog().Get(service.ModelCVDPointsV1)
	require.NoError(t, err)
	_, err = engine.ProjectBMI(rec, cvd, 24)
	testutil.RequireUnsupportedModel(t, err, model.FactorBMI)
}

func TestRiskEngine_ScoreProjectionMatchesHandout(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())
	m := service.DiabetesScoreV0()

	projection, err := engine.ProjectBMI(rec, m, 24)
	require.NoError(t, err)

	// Dropping BMI from 27.06 to 24 removes roughly 0.4 points.
	assert.InDelta(t, -(1-24/27.06)*3.59, projection.Delta(), 1e-9)
}

func TestRiskEngine_RejectsInvalidModel(t *testing.T) {
	engine := newEngine()
	rec := testutil.MustInputRecord(t, testutil.GraduateMaleParams())

	m := service.DiabetesScoreV0()
	m.Terms[4].Threshold = 0

	_, err := engine.Evaluate(rec, m)
	testutil.AssertErrorContains(t, err, "invalid scoring model")
}
