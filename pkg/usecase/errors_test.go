package usecase_test

import (
	"errors"
	"testing"

	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidRequest", usecase.ErrInvalidRequest},
		{"ErrRunFailed", usecase.ErrRunFailed},
		{"ErrRunTimeout", usecase.ErrRunTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrRunFailed, usecase.ErrRunTimeout)).False()
	gt.Bool(t, errors.Is(usecase.ErrInvalidRequest, usecase.ErrRunFailed)).False()
}

func TestRunFailureReason(t *testing.T) {
	t.Run("reason of a failed run", func(t *testing.T) {
		err := goerr.Wrap(usecase.ErrRunFailed, "failed", goerr.V(usecase.ReasonKey, "Rate limit exceeded"))
		wrapped := goerr.Wrap(err, "outer")
		gt.Value(t, usecase.RunFailureReason(wrapped)).Equal("Rate limit exceeded")
	})

	t.Run("other errors have no reason", func(t *testing.T) {
		err := goerr.Wrap(usecase.ErrRunTimeout, "timeout", goerr.V(usecase.ReasonKey, "ignored"))
		gt.Value(t, usecase.RunFailureReason(err)).Equal("")
	})
}
