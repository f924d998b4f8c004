package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/model"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// RequireInvalidInput asserts that err wraps an InvalidInputError for field.
func RequireInvalidInput(t *testing.T, err error, field string) {
	t.Helper()
	var invalid *model.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, field, invalid.Field)
}

// RequireUnsupportedModel asserts that err wraps an UnsupportedModelError naming
// every factor in missing.
func RequireUnsupportedModel(t *testing.T, err error, missing ...model.Factor) {
	t.Helper()
	var unsupported *model.UnsupportedModelError
	require.ErrorAs(t, err, &unsupported)
	for _, f := range missing {
		assert.Contains(t, unsupported.Missing, f)
	}
}
