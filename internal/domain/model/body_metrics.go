package model

// BodyMetrics holds the anthropometric ratios the models consume.
type BodyMetrics struct {
	BMI float64 `json:"bmi"`
	WHR float64 `json:"whr"`
}

// IsZero returns true when no metrics were derived.
func (m BodyMetrics) IsZero() bool {
	return m.BMI == 0 && m.WHR == 0
}
