package usecase

import (
	"strconv"
	"strings"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/valueobject"
)

// buildInputRecord parses the raw answers into an InputRecord. Parse failures surface
// as *model.InvalidInputError naming the offending field.
func buildInputRecord(in dto.SubjectInput) (model.InputRecord, error) {
	sex, err := valueobject.SexFromString(in.Sex)
	if err != nil {
		return model.InputRecord{}, &model.InvalidInputError{Field: "sex", Value: in.Sex, Reason: "must be male or female"}
	}

	education, err := valueobject.EducationLevelFromString(in.Education)
	if err != nil {
		return model.InputRecord{}, &model.InvalidInputError{Field: "education", Value: in.Education, Reason: "must be a level 1-7 or a known band"}
	}

	betel, err := parseBetel(in.Betel)
	if err != nil {
		return model.InputRecord{}, &model.InvalidInputError{Field: "betel", Value: in.Betel, Reason: "must be never, current or former"}
	}

	p := model.InputParams{
		Age:           in.Age,
		Sex:           sex,
		Education:     education,
		FamilyHistory: in.FamilyHistory,
		Betel:         betel,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		WaistCm:       in.WaistCm,
		HipCm:         in.HipCm,
		BMI:           in.BMI,
		WHR:           in.WHR,
		SystolicBP:    in.SystolicBP,
		HDL:           in.HDL,
		Diabetes:      in.Diabetes,
	}

	if in.Smoking != nil {
		smoking, err := valueobject.SmokingStatusFromString(*in.Smoking)
		if err != nil {
			return model.InputRecord{}, &model.InvalidInputError{Field: "smoking", Value: *in.Smoking, Reason: "must be never, former or current"}
		}
		p.Smoking = &smoking
	}

	return model.NewInputRecord(p)
}

// parseBetel accepts the tri-state names and the yes/no form of the short questionnaire.
func parseBetel(s string) (valueobject.BetelUse, error) {
	b, err := valueobject.BetelUseFromString(s)
	if err == nil {
		return b, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return valueobject.BetelCurrent, nil
	case "no", "n":
		return valueobject.BetelNever, nil
	}
	uses, perr := strconv.ParseBool(strings.TrimSpace(s))
	if perr != nil {
		return valueobject.BetelUse{}, err
	}
	return valueobject.BetelUseFromBool(uses), nil
}
