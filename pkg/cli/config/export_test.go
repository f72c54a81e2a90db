package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, signingSecret string) *Slack {
	return &Slack{
		botToken:      botToken,
		signingSecret: signingSecret,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, redisURL, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		redisURL:  redisURL,
		projectID: projectID,
	}
}

// NewEngineForTest creates an Engine config for testing purposes
func NewEngineForTest(engine, apiKey, assistantID, profilePath string) *Engine {
	return &Engine{
		engine:          engine,
		openaiAPIKey:    apiKey,
		assistantID:     assistantID,
		profilePath:     profilePath,
		pollInterval:    time.Second,
		maxPollInterval: 2 * time.Second,
		maxWait:         time.Minute,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn, env string) *Sentry {
	return &Sentry{dsn: dsn, env: env}
}

var (
	ParseLogLevel = parseLogLevel
	NewLogger     = newLogger
)
