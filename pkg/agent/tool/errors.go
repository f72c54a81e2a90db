package tool

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrUnknownTool is returned when the engine names a tool that does not exist
	ErrUnknownTool = goerr.New("unknown tool")

	// ErrMalformedArguments is returned when tool arguments cannot be decoded
	// or miss a required field
	ErrMalformedArguments = goerr.New("malformed tool arguments")
)
