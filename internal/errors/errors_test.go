package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT must be numeric"), "failed to load")
	assert.Equal(t, CodeConfigInvalid, FromDomain(err).Code)
	assert.Equal(t, "failed to load: PORT must be numeric", err.Error())

	assert.Equal(t, CodeInternalError, FromDomain(Wrap(fmt.Errorf("boom"), "ctx")).Code)
	assert.Nil(t, Wrap(nil, "ctx"))
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"grouping", core.NewInvalidGroupingError("condition", "a", "a", "labels are equal"), CodeInvalidGrouping},
		{"paired sizes", &core.UnequalSampleSizeError{GroupA: "pre", GroupB: "post", SizeA: 3, SizeB: 4}, CodeUnequalSampleSize},
		{"correction", fmt.Errorf("run: %w", &core.UnsupportedCorrectionError{Method: "tukey"}), CodeUnsupportedCorrection},
		{"not found", core.ErrResultNotFound, CodeNotFound},
		{"validation", core.NewValidationError("sample id", "duplicate"), CodeValidationError},
		{"input", core.ErrInvalidAlternative, CodeInvalidInput},
		{"canceled", context.Canceled, CodeCanceled},
		{"other", fmt.Errorf("disk on fire"), CodeInternalError},
		{"app error", InvalidInput("bad form"), CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
	assert.Nil(t, FromDomain(nil))
}
