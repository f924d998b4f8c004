package valueobject

import "fmt"

// RiskCategory is an immutable value object representing the ordinal risk classification.
// Two-state models only ever produce LOW or HIGH.
type RiskCategory struct {
	value string
}

var (
	RiskCategoryLow      = RiskCategory{value: "LOW"}
	RiskCategoryModerate = RiskCategory{value: "MODERATE"}
	RiskCategoryHigh     = RiskCategory{value: "HIGH"}
)

// RiskCategoryFromString reconstructs a RiskCategory from its string representation.
func RiskCategoryFromString(s string) (RiskCategory, error) {
	switch s {
	case "LOW":
		return RiskCategoryLow, nil
	case "MODERATE":
		return RiskCategoryModerate, nil
	case "HIGH":
		return RiskCategoryHigh, nil
	default:
		return RiskCategory{}, fmt.Errorf("invalid risk category: %s", s)
	}
}

// String returns the string representation.
func (c RiskCategory) String() string {
	return c.value
}

// Rank returns the ordinal position of the category: LOW=1, MODERATE=2, HIGH=3.
// The zero value ranks 0.
func (c RiskCategory) Rank() int {
	switch c.value {
	case "LOW":
		return 1
	case "MODERATE":
		return 2
	case "HIGH":
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether c is as severe as other or more.
func (c RiskCategory) AtLeast(other RiskCategory) bool {
	return c.Rank() >= other.Rank()
}

// IsZero returns true if the RiskCategory has not been set.
func (c RiskCategory) IsZero() bool {
	return c.value == ""
}

// Equal checks equality with another RiskCategory.
func (c RiskCategory) Equal(other RiskCategory) bool {
	return c.value == other.value
}
