package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := Validation("bad signature")
	assert.Equal(t, "bad signature", err.Error())

	wrapped := Wrap(stderrors.New("eof"), ErrCodeValidation, "decode payload")
	assert.Equal(t, "decode payload: eof", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrapf(cause, ErrCodePublish, "publish to flavor %q", "large")

	require.ErrorIs(t, err, cause)
	assert.True(t, IsPublish(err))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", Validation("x"), IsValidation},
		{"configuration", Configuration("x"), IsConfiguration},
		{"no matching flavor", NoMatchingFlavorf("labels %v", []string{"gpu"}), IsNoMatchingFlavor},
		{"ambiguous labels", AmbiguousLabelsf("labels %v", []string{"x", "y"}), IsAmbiguousLabels},
		{"redelivery", Redelivery("x"), IsRedelivery},
		{"rate limited", Wrap(stderrors.New("429"), ErrCodeRateLimited, "x"), IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(stderrors.New("plain")))
		})
	}
}

func TestCodePredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handle webhook: %w", AmbiguousLabelsf("labels span flavors"))
	assert.True(t, IsAmbiguousLabels(err))
	assert.True(t, IsRoutable(err))
	assert.False(t, IsNoMatchingFlavor(err))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeConfiguration, GetCode(Configuration("dup label")))
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
}
