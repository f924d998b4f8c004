package valueobject

import "fmt"

// LinkFunction identifies how a model turns its linear predictor into a reported value.
type LinkFunction struct {
	value string
}

var (
	// LinkLogistic maps the logit to a probability with the logistic sigmoid.
	LinkLogistic = LinkFunction{value: "logistic"}
	// LinkLinearScore reports the weighted sum unchanged.
	LinkLinearScore = LinkFunction{value: "linear-score"}
	// LinkPoints reports the sum of banded integer points.
	LinkPoints = LinkFunction{value: "points"}
)

// LinkFunctionFromString reconstructs a LinkFunction from its string representation.
func LinkFunctionFromString(s string) (LinkFunction, error) {
	switch s {
	case "logistic":
		return LinkLogistic, nil
	case "linear-score":
		return LinkLinearScore, nil
	case "points":
		return LinkPoints, nil
	default:
		return LinkFunction{}, fmt.Errorf("invalid link function: %s", s)
	}
}

// String returns the string representation.
func (l LinkFunction) String() string {
	return l.value
}

// IsZero returns true if the LinkFunction has not been set.
func (l LinkFunction) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another LinkFunction.
func (l LinkFunction) Equal(other LinkFunction) bool {
	return l.value == other.value
}
