package model

import (
	"math"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Documented input bounds. A zero value for an optional measurement means "not supplied".
const (
	MinAge, MaxAge               = 1, 120
	MinHeightCm, MaxHeightCm     = 100.0, 250.0
	MinWeightKg, MaxWeightKg     = 30.0, 200.0
	MinGirthCm, MaxGirthCm       = 50.0, 150.0
	MinBMI, MaxBMI               = 10.0, 45.0
	MinWHR, MaxWHR               = 0.60, 1.20
	MinSystolicBP, MaxSystolicBP = 60.0, 260.0
	MinHDL, MaxHDL               = 10.0, 150.0
)

// InputParams carries the raw values used to build an InputRecord.
// Body measurements and direct metrics are both optional here; DeriveMetrics decides
// whether the supplied set is enough. Cardiovascular fields are nil when not collected.
type InputParams struct {
	SystolicBP    *float64
	HDL           *float64
	Smoking       *valueobject.SmokingStatus
	Diabetes      *bool
	Sex           valueobject.Sex
	Betel         valueobject.BetelUse
	Education     valueobject.EducationLevel
	HeightCm      float64
	WeightKg      float64
	WaistCm       float64
	HipCm         float64
	BMI           float64
	WHR           float64
	Age           int
	FamilyHistory bool
}

// CardiovascularFactors is the optional cardiovascular extension of a record.
type CardiovascularFactors struct {
	Smoking    valueobject.SmokingStatus
	SystolicBP float64
	HDL        float64
	Diabetes   bool
}

// InputRecord is an immutable snapshot of one assessment.
type InputRecord struct {
	sex           valueobject.Sex
	betel         valueobject.BetelUse
	smoking       valueobject.SmokingStatus
	education     valueobject.EducationLevel
	heightCm      float64
	weightKg      float64
	waistCm       float64
	hipCm         float64
	bmi           float64
	whr           float64
	systolicBP    float64
	hdl           float64
	age           int
	familyHistory bool
	diabetes      bool
	hasSystolicBP bool
	hasHDL        bool
	hasSmoking    bool
	hasDiabetes   bool
}

// NewInputRecord validates the params and returns an immutable record.
// It fails with *InvalidInputError on the first offending field.
func NewInputRecord(p InputParams) (InputRecord, error) {
	if p.Age < MinAge || p.Age > MaxAge {
		return InputRecord{}, invalid("age", p.Age, "must be between %d and %d", MinAge, MaxAge)
	}
	if p.Sex.IsZero() {
		return InputRecord{}, invalid("sex", nil, "is required")
	}
	if p.Education.IsZero() {
		return InputRecord{}, invalid("education", nil, "is required")
	}
	if p.Betel.IsZero() {
		return InputRecord{}, invalid("betel", nil, "is required")
	}

	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"height_cm", p.HeightCm, MinHeightCm, MaxHeightCm},
		{"weight_kg", p.WeightKg, MinWeightKg, MaxWeightKg},
		{"waist_cm", p.WaistCm, MinGirthCm, MaxGirthCm},
		{"hip_cm", p.HipCm, MinGirthCm, MaxGirthCm},
		{"bmi", p.BMI, MinBMI, MaxBMI},
		{"whr", p.WHR, MinWHR, MaxWHR},
	}
	for _, c := range checks {
		if err := checkOptional(c.field, c.value, c.min, c.max); err != nil {
			return InputRecord{}, err
		}
	}

	rec := InputRecord{
		age:           p.Age,
		sex:           p.Sex,
		education:     p.Education,
		familyHistory: p.FamilyHistory,
		betel:         p.Betel,
		heightCm:      p.HeightCm,
		weightKg:      p.WeightKg,
		waistCm:       p.WaistCm,
		hipCm:         p.HipCm,
		bmi:           p.BMI,
		whr:           p.WHR,
	}

	if p.SystolicBP != nil {
		if err := checkRequired("systolic_bp", *p.SystolicBP, MinSystolicBP, MaxSystolicBP); err != nil {
			return InputRecord{}, err
		}
		rec.systolicBP, rec.hasSystolicBP = *p.SystolicBP, true
	}
	if p.HDL != nil {
		if err := checkRequired("hdl", *p.HDL, MinHDL, MaxHDL); err != nil {
			return InputRecord{}, err
		}
		rec.hdl, rec.hasHDL = *p.HDL, true
	}
	if p.Smoking != nil {
		if p.Smoking.IsZero() {
			return InputRecord{}, invalid("smoking", nil, "must be never, former or current")
		}
		rec.smoking, rec.hasSmoking = *p.Smoking, true
	}
	if p.Diabetes != nil {
		rec.diabetes, rec.hasDiabetes = *p.Diabetes, true
	}

	return rec, nil
}

func checkOptional(field string, v, lo, hi float64) error {
	if v == 0 {
		return nil
	}
	return checkRequired(field, v, lo, hi)
}

func checkRequired(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, v, "must be a finite number")
	}
	if v <= 0 {
		return invalid(field, v, "must be positive")
	}
	if v < lo || v > hi {
		return invalid(field, v, "must be between %g and %g", lo, hi)
	}
	return nil
}

// WithBMI returns a copy of the record whose BMI is supplied directly as bmi.
// The receiver is left untouched.
func (r InputRecord) WithBMI(bmi float64) (InputRecord, error) {
	if err := checkRequired("bmi", bmi, MinBMI, MaxBMI); err != nil {
		return InputRecord{}, err
	}
	r.bmi = bmi
	return r, nil
}

// --- Accessors ---

func (r InputRecord) Age() int                              { return r.age }
func (r InputRecord) Sex() valueobject.Sex                  { return r.sex }
func (r InputRecord) Education() valueobject.EducationLevel { return r.education }
func (r InputRecord) FamilyHistory() bool                   { return r.familyHistory }
func (r InputRecord) Betel() valueobject.BetelUse           { return r.betel }
func (r InputRecord) HeightCm() float64                     { return r.heightCm }
func (r InputRecord) WeightKg() float64                     { return r.weightKg }
func (r InputRecord) WaistCm() float64                      { return r.waistCm }
func (r InputRecord) HipCm() float64                        { return r.hipCm }

// DirectBMI returns the BMI supplied by the caller, if any.
func (r InputRecord) DirectBMI() (float64, bool) { return r.bmi, r.bmi > 0 }

// DirectWHR returns the WHR supplied by the caller, if any.
func (r InputRecord) DirectWHR() (float64, bool) { return r.whr, r.whr > 0 }

func (r InputRecord) SystolicBP() (float64, bool)                { return r.systolicBP, r.hasSystolicBP }
func (r InputRecord) HDL() (float64, bool)                       { return r.hdl, r.hasHDL }
func (r InputRecord) Smoking() (valueobject.SmokingStatus, bool) { return r.smoking, r.hasSmoking }
func (r InputRecord) Diabetes() (bool, bool)                     { return r.diabetes, r.hasDiabetes }

// Cardiovascular returns the cardiovascular extension when every field of it was supplied.
func (r InputRecord) Cardiovascular() (CardiovascularFactors, bool) {
	if !r.hasSystolicBP || !r.hasHDL || !r.hasSmoking || !r.hasDiabetes {
		return CardiovascularFactors{}, false
	}
	return CardiovascularFactors{
		SystolicBP: r.systolicBP,
		HDL:        r.hdl,
		Smoking:    r.smoking,
		Diabetes:   r.diabetes,
	}, true
}
