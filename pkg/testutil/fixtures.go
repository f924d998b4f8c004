package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// Reference body metrics used by the questionnaire examples.
const (
	ReferenceBMI = 27.06
	ReferenceWHR = 0.89
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Smoking returns a pointer to s.
func Smoking(s valueobject.SmokingStatus) *valueobject.SmokingStatus { return &s }

// GraduateMaleParams is a 38-year-old man with a graduate degree, no family history,
// no betel use, BMI 27.06 and WHR 0.89 supplied directly.
func GraduateMaleParams() model.InputParams {
	edu, _ := valueobject.NewEducationLevel(valueobject.MaxEducationLevel)
	return model.InputParams{
		Age:       38,
		Sex:       valueobject.SexMale,
		Education: edu,
		Betel:     valueobject.BetelNever,
		BMI:       ReferenceBMI,
		WHR:       ReferenceWHR,
	}
}

// CardiovascularParams is a 62-year-old current smoker with SBP 150, HDL 35 and no
// diabetes diagnosis.
func CardiovascularParams() model.InputParams {
	p := GraduateMaleParams()
	p.Age = 62
	p.SystolicBP = Float(150)
	p.HDL = Float(35)
	p.Smoking = Smoking(valueobject.SmokingCurrent)
	p.Diabetes = Bool(false)
	return p
}

// MustInputRecord builds a record and fails the test on error.
func MustInputRecord(t *testing.T, p model.InputParams) model.InputRecord {
	t.Helper()
	rec, err := model.NewInputRecord(p)
	require.NoError(t, err)
	return rec
}
