package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrInvalidRequest = errors.New("invalid chat request")

	// Run errors
	ErrRunFailed  = errors.New("run failed")
	ErrRunTimeout = errors.New("run timed out")
)

// Context keys for error values
const (
	ReasonKey   = "reason"
	ThreadIDKey = "thread_id"
	RunIDKey    = "run_id"
)

// RunFailureReason returns the engine-reported reason carried by an
// ErrRunFailed error, or an empty string
func RunFailureReason(err error) string {
	if !errors.Is(err, ErrRunFailed) {
		return ""
	}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if reason, ok := ge.Values()[ReasonKey].(string); ok {
			return reason
		}
	}
	return ""
}
