package gollem

import (
	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrThreadNotFound is returned for thread ids this process did not create
	ErrThreadNotFound = interfaces.ErrThreadNotFound

	// ErrRunNotFound is returned for unknown run ids
	ErrRunNotFound = goerr.New("run not found")

	// ErrRunNotWaiting is returned when tool outputs are submitted to a run
	// that is not in requires_action
	ErrRunNotWaiting = goerr.New("run is not waiting for tool outputs")

	// ErrNoMessage is returned when the thread has no reply yet
	ErrNoMessage = goerr.New("thread has no message")
)
