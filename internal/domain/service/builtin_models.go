package service

import (
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Built-in model identifiers.
const (
	ModelDiabetesLogisticV1 = "diabetes-logistic-v1"
	ModelDiabetesScoreV0    = "diabetes-score-v0"
	ModelCVDPointsV1        = "cvd-points-v1"
)

func ptr(v float64) *float64 { return &v }

// DiabetesLogisticV1 is the Taiwan Biobank logistic model (BMJ Open 2023).
// Education enters as the raw 1..7 ordinal; sex as a male indicator.
func DiabetesLogisticV1() model.ScoringModel {
	return model.ScoringModel{
		ID:        ModelDiabetesLogisticV1,
		Version:   "1",
		Name:      "Type 2 diabetes logistic model",
		Citation:  "BMJ Open 2023, Taiwan Biobank",
		Link:      valueobject.LinkLogistic,
		Intercept: -12.935,
		Terms: []model.Term{
			{Factor: model.FactorAge, Coding: model.CodingIdentity, Beta: 0.046},
			{Factor: model.FactorSex, Coding: model.CodingIndicator, Beta: -0.215, Levels: []float64{1}},
			{Factor: model.FactorBMI, Coding: model.CodingIdentity, Beta: 0.132},
			{Factor: model.FactorWHR, Coding: model.CodingIdentity, Beta: 4.950},
			{Factor: model.FactorEducation, Coding: model.CodingIdentity, Beta: -0.071},
			{Factor: model.FactorFamilyHistory, Coding: model.CodingIndicator, Beta: 0.724, Levels: []float64{1}},
			{Factor: model.FactorBetel, Coding: model.CodingIndicator, Beta: 0.313, Levels: []float64{1, 2}},
		},
		Cutoffs: model.Cutoffs{High: 0.0065},
		Labels: model.CategoryLabels{
			Low:  "below cutoff",
			High: "above cutoff",
		},
	}
}

// DiabetesScoreV0 is the simplified additive score from the education handout.
// WHR and BMI earn their full weight at the reference value and a proportional share below it.
func DiabetesScoreV0() model.ScoringModel {
	return model.ScoringModel{
		ID:       ModelDiabetesScoreV0,
		Version:  "0",
		Name:     "Simplified diabetes risk score",
		Citation: "Chi Mei Medical Center pediatric education handout",
		Link:     valueobject.LinkLinearScore,
		Terms: []model.Term{
			{Factor: model.FactorSex, Coding: model.CodingIndicator, Beta: -0.22, Levels: []float64{1}},
			{Factor: model.FactorAge, Coding: model.CodingStep, Beta: 1.76, Threshold: 35},
			{Factor: model.FactorFamilyHistory, Coding: model.CodingIndicator, Beta: 2.0, Levels: []float64{1}},
			{Factor: model.FactorEducation, Coding: model.CodingStep, Beta: -0.50, Threshold: valueobject.MaxEducationLevel},
			{Factor: model.FactorWHR, Coding: model.CodingSaturating, Beta: 4.41, Threshold: 0.89},
			{Factor: model.FactorBMI, Coding: model.CodingSaturating, Beta: 3.59, Threshold: 27.06},
			{Factor: model.FactorBetel, Coding: model.CodingIndicator, Beta: 1.5, Levels: []float64{1, 2}},
		},
		Cutoffs: model.Cutoffs{Moderate: ptr(8), High: 12},
		Labels: model.CategoryLabels{
			Low:      "no immediate risk",
			Moderate: "moderate risk",
			High:     "high risk",
		},
	}
}

// CVDPointsV1 is the additive cardiovascular point system. Bands within a factor are
// mutually exclusive and checked highest threshold first.
func CVDPointsV1() model.ScoringModel {
	return model.ScoringModel{
		ID:      ModelCVDPointsV1,
		Version: "1",
		Name:    "Cardiovascular point score",
		Link:    valueobject.LinkPoints,
		Terms: []model.Term{
			{Factor: model.FactorAge, Coding: model.CodingBands, Bands: []model.Band{
				{Threshold: 60, Points: 4},
				{Threshold: 50, Points: 2},
			}},
			{Factor: model.FactorSmoking, Coding: model.CodingIndicator, Beta: 3, Levels: []float64{valueobject.SmokingCurrent.Code()}},
			{Factor: model.FactorSystolicBP, Coding: model.CodingBands, Bands: []model.Band{
				{Threshold: 160, Points: 4},
				{Threshold: 140, Points: 3},
			}},
			{Factor: model.FactorDiabetes, Coding: model.CodingIndicator, Beta: 3, Levels: []float64{1}},
			{Factor: model.FactorHDL, Coding: model.CodingBands, Bands: []model.Band{
				{Threshold: 40, Points: 2, Below: true},
			}},
		},
		Cutoffs: model.Cutoffs{Moderate: ptr(4), High: 7},
		Labels: model.CategoryLabels{
			Low:      "low risk",
			Moderate: "moderate risk",
			High:     "high risk",
		},
	}
}

// BuiltinModels returns fresh copies of every built-in model.
func BuiltinModels() []model.ScoringModel {
	return []model.ScoringModel{
		DiabetesLogisticV1(),
		DiabetesScoreV0(),
		CVDPointsV1(),
	}
}
