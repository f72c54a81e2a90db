package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidBackend      = goerr.New("invalid kv backend")
	ErrInvalidEngine       = goerr.New("invalid reasoning engine")
	ErrInvalidLogLevel     = goerr.New("invalid log level")
	ErrInvalidLogFormat    = goerr.New("invalid log format")
	ErrMissingRequired     = goerr.New("required option is missing")
	ErrProfileNotFound     = goerr.New("assistant profile file not found")
	ErrInvalidProfile      = goerr.New("invalid assistant profile")
	ErrIncompleteSlackAuth = goerr.New("slack bot token and signing secret must be set together")
)

// Context keys for error values
const (
	BackendKey     = "backend"
	EngineKey      = "engine"
	OptionKey      = "option"
	ProfilePathKey = "profile_path"
)
