package location

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMapsError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrTimeout},
		{"canceled", context.Canceled, context.Canceled},
		{"request denied", errors.New("maps: REQUEST_DENIED - The provided API key is invalid."), ErrUnauthorized},
		{"key invalid", errors.New("googleapi: Error 400: keyInvalid"), ErrUnauthorized},
		{"not found", errors.New("googleapi: Error 404: notFound"), ErrNoFix},
		{"zero results", errors.New("maps: ZERO_RESULTS - "), ErrNoFix},
		{"other", errors.New("maps: UNKNOWN_ERROR - "), ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMapsError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyMapsError_Nil(t *testing.T) {
	assert.NoError(t, classifyMapsError(nil))
}
