package valueobject

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex is an immutable value object for the binary sex category used by the models.
type Sex struct {
	value string
}

var (
	SexMale   = Sex{value: "MALE"}
	SexFemale = Sex{value: "FEMALE"}
)

// SexFromString parses a sex category. Matching is case-insensitive and accepts
// the single-letter and Traditional Chinese forms used by the questionnaire.
func SexFromString(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "M", "男":
		return SexMale, nil
	case "FEMALE", "F", "女":
		return SexFemale, nil
	default:
		return Sex{}, fmt.Errorf("invalid sex: %q", s)
	}
}

// Code returns the numeric coding used in coefficient tables: male=1, female=0.
func (s Sex) Code() float64 {
	if s.value == "MALE" {
		return 1
	}
	return 0
}

func (s Sex) String() string { return s.value }
func (s Sex) IsZero() bool   { return s.value == "" }

// Equal checks equality with another Sex.
func (s Sex) Equal(other Sex) bool {
	return s.value == other.value
}

// EducationLevel is the Taiwan Biobank education ordinal, 1 (illiterate) to 7 (graduate school).
type EducationLevel struct {
	level int
}

const (
	MinEducationLevel = 1
	MaxEducationLevel = 7
)

// Questionnaire bands and the ordinal each one maps to.
var educationBands = map[string]int{
	"junior-high-or-below": 4,
	"senior-high":          5,
	"college":              6,
	"graduate":             7,
	"國中及以下":                4,
	"高中/職":                 5,
	"大學/大專":                6,
	"研究所及以上":               7,
}

// NewEducationLevel creates an EducationLevel from a raw ordinal.
func NewEducationLevel(level int) (EducationLevel, error) {
	if level < MinEducationLevel || level > MaxEducationLevel {
		return EducationLevel{}, fmt.Errorf("education level must be between %d and %d, got %d",
			MinEducationLevel, MaxEducationLevel, level)
	}
	return EducationLevel{level: level}, nil
}

// EducationLevelFromString parses either a raw ordinal ("1".."7") or a questionnaire band.
func EducationLevelFromString(s string) (EducationLevel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(key); err == nil {
		return NewEducationLevel(n)
	}
	if level, ok := educationBands[key]; ok {
		return EducationLevel{level: level}, nil
	}
	return EducationLevel{}, fmt.Errorf("invalid education level: %q", s)
}

// Ordinal returns the raw 1..7 ordinal.
func (e EducationLevel) Ordinal() int { return e.level }

// IsZero returns true if the EducationLevel has not been set.
func (e EducationLevel) IsZero() bool { return e.level == 0 }

// Band returns the questionnaire band the ordinal falls in.
func (e EducationLevel) Band() string {
	switch {
	case e.level == 0:
		return ""
	case e.level <= 4:
		return "junior-high-or-below"
	case e.level == 5:
		return "senior-high"
	case e.level == 6:
		return "college"
	default:
		return "graduate"
	}
}

func (e EducationLevel) String() string {
	return strconv.Itoa(e.level)
}

// BetelUse is the tri-state betel-nut chewing history.
type BetelUse struct {
	value string
}

var (
	BetelNever   = BetelUse{value: "NEVER"}
	BetelCurrent = BetelUse{value: "CURRENT"}
	BetelFormer  = BetelUse{value: "FORMER"}
)

// betelAnswers maps the questionnaire's answer labels onto the tri-state history.
var betelAnswers = map[string]BetelUse{
	"從未吃過，或只吃過一兩次而已": BetelNever,
	"從未吃過":           BetelNever,
	"目前有吃":           BetelCurrent,
	"過去曾吃但已戒":        BetelFormer,
}

// BetelUseFromString parses the tri-state betel history or a questionnaire answer label.
func BetelUseFromString(s string) (BetelUse, error) {
	key := strings.TrimSpace(s)
	switch strings.ToUpper(key) {
	case "NEVER":
		return BetelNever, nil
	case "CURRENT":
		return BetelCurrent, nil
	case "FORMER":
		return BetelFormer, nil
	}
	if b, ok := betelAnswers[key]; ok {
		return b, nil
	}
	return BetelUse{}, fmt.Errorf("invalid betel use: %q", s)
}

// BetelUseFromBool maps the boolean questionnaire variant: true is current use.
func BetelUseFromBool(uses bool) BetelUse {
	if uses {
		return BetelCurrent
	}
	return BetelNever
}

// Code returns the numeric coding used in coefficient tables: never=0, current=1, former=2.
func (b BetelUse) Code() float64 {
	switch b.value {
	case "CURRENT":
		return 1
	case "FORMER":
		return 2
	default:
		return 0
	}
}

func (b BetelUse) String() string { return b.value }
func (b BetelUse) IsZero() bool   { return b.value == "" }

// Equal checks equality with another BetelUse.
func (b BetelUse) Equal(other BetelUse) bool {
	return b.value == other.value
}

// SmokingStatus is the tri-state smoking history.
type SmokingStatus struct {
	value string
}

var (
	SmokingNever   = SmokingStatus{value: "NEVER"}
	SmokingFormer  = SmokingStatus{value: "FORMER"}
	SmokingCurrent = SmokingStatus{value: "CURRENT"}
)

// SmokingStatusFromString parses the tri-state smoking history.
func SmokingStatusFromString(s string) (SmokingStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEVER":
		return SmokingNever, nil
	case "FORMER":
		return SmokingFormer, nil
	case "CURRENT":
		return SmokingCurrent, nil
	default:
		return SmokingStatus{}, fmt.Errorf("invalid smoking status: %q", s)
	}
}

// Code returns the numeric coding used in coefficient tables: never=0, former=1, current=2.
func (s SmokingStatus) Code() float64 {
	switch s.value {
	case "FORMER":
		return 1
	case "CURRENT":
		return 2
	default:
		return 0
	}
}

func (s SmokingStatus) String() string { return s.value }
func (s SmokingStatus) IsZero() bool   { return s.value == "" }

// Equal checks equality with another SmokingStatus.
func (s SmokingStatus) Equal(other SmokingStatus) bool {
	return s.value == other.value
}
