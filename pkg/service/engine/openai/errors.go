package openai

import "github.com/m-mizutani/goerr/v2"

// ErrNoMessage is returned when a thread has no message to read back
var ErrNoMessage = goerr.New("thread has no message")
