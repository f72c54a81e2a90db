package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	gollemengine "github.com/caeleel/friendbook/pkg/service/engine/gollem"
	openaiengine "github.com/caeleel/friendbook/pkg/service/engine/openai"
	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	engineOpenAI = "openai"
	engineGemini = "gemini"
)

// Engine holds CLI flags for the reasoning engine and the run polling
type Engine struct {
	engine       string
	openaiAPIKey string
	assistantID  string
	openaiURL    string
	profilePath  string

	pollInterval    time.Duration
	maxPollInterval time.Duration
	maxWait         time.Duration

	gemini Gemini
}

func (x *Engine) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "engine",
			Usage:       "Reasoning engine (openai or gemini)",
			Category:    "Engine",
			Value:       engineOpenAI,
			Sources:     cli.EnvVars("FRIENDBOOK_ENGINE"),
			Destination: &x.engine,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (required when using openai engine)",
			Category:    "Engine",
			Sources:     cli.EnvVars("FRIENDBOOK_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-assistant-id",
			Usage:       "OpenAI assistant ID, created with the provision command",
			Category:    "Engine",
			Sources:     cli.EnvVars("FRIENDBOOK_OPENAI_ASSISTANT_ID"),
			Destination: &x.assistantID,
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "OpenAI API base URL",
			Category:    "Engine",
			Sources:     cli.EnvVars("FRIENDBOOK_OPENAI_BASE_URL"),
			Destination: &x.openaiURL,
		},
		&cli.StringFlag{
			Name:        "assistant-profile",
			Usage:       "Path to the assistant profile TOML file (name, model, instructions)",
			Category:    "Engine",
			Sources:     cli.EnvVars("FRIENDBOOK_ASSISTANT_PROFILE"),
			Destination: &x.profilePath,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "First wait between run status polls",
			Category:    "Engine",
			Value:       usecase.DefaultPollInterval,
			Sources:     cli.EnvVars("FRIENDBOOK_POLL_INTERVAL"),
			Destination: &x.pollInterval,
		},
		&cli.DurationFlag{
			Name:        "max-poll-interval",
			Usage:       "Upper bound of the exponentially growing poll interval",
			Category:    "Engine",
			Value:       usecase.DefaultMaxPollInterval,
			Sources:     cli.EnvVars("FRIENDBOOK_MAX_POLL_INTERVAL"),
			Destination: &x.maxPollInterval,
		},
		&cli.DurationFlag{
			Name:        "max-wait",
			Usage:       "Maximum time a run may take before it is reported as timed out",
			Category:    "Engine",
			Value:       usecase.DefaultMaxWait,
			Sources:     cli.EnvVars("FRIENDBOOK_MAX_WAIT"),
			Destination: &x.maxWait,
		},
	}
	return append(flags, x.gemini.Flags()...)
}

func (x Engine) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("engine", x.engine),
		slog.Int("openai_api_key.len", len(x.openaiAPIKey)),
		slog.String("openai_assistant_id", x.assistantID),
		slog.String("assistant_profile", x.profilePath),
		slog.Duration("poll_interval", x.pollInterval),
		slog.Duration("max_poll_interval", x.maxPollInterval),
		slog.Duration("max_wait", x.maxWait),
	}
	if x.engine == engineGemini {
		attrs = append(attrs, x.gemini.LogAttrs()...)
	}
	return slog.GroupValue(attrs...)
}

// Profile returns the assistant profile from --assistant-profile, or the
// default profile when no file is given
func (x *Engine) Profile() (*model.AssistantProfile, error) {
	if x.profilePath == "" {
		return model.DefaultAssistantProfile(), nil
	}
	return LoadAssistantProfile(x.profilePath)
}

// UseCaseOptions returns the polling options for the chat use case
func (x *Engine) UseCaseOptions() []usecase.Option {
	return []usecase.Option{
		usecase.WithPollInterval(x.pollInterval),
		usecase.WithMaxPollInterval(x.maxPollInterval),
		usecase.WithMaxWait(x.maxWait),
	}
}

func (x *Engine) openaiOptions() []openaiengine.Option {
	if x.openaiURL == "" {
		return nil
	}
	return []openaiengine.Option{openaiengine.WithBaseURL(x.openaiURL)}
}

func (x *Engine) requireAPIKey() error {
	if x.openaiAPIKey == "" {
		return goerr.Wrap(ErrMissingRequired, "openai-api-key is required when using openai engine", goerr.V(OptionKey, "openai-api-key"))
	}
	return nil
}

// Configure creates the reasoning engine selected by --engine
func (x *Engine) Configure(ctx context.Context) (interfaces.ReasoningEngine, error) {
	switch x.engine {
	case engineOpenAI, "":
		if err := x.requireAPIKey(); err != nil {
			return nil, err
		}
		if x.assistantID == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "openai-assistant-id is required when using openai engine; create one with the provision command", goerr.V(OptionKey, "openai-assistant-id"))
		}
		engine, err := openaiengine.New(x.openaiAPIKey, x.assistantID, x.openaiOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI engine")
		}
		return engine, nil

	case engineGemini:
		profile, err := x.Profile()
		if err != nil {
			return nil, err
		}
		client, err := x.gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		return gollemengine.New(client, gollemengine.WithSystemPrompt(profile.Instructions)), nil

	default:
		return nil, goerr.Wrap(ErrInvalidEngine, "unknown engine", goerr.V(EngineKey, x.engine))
	}
}

// Provision creates an OpenAI assistant for the profile and returns its ID
func (x *Engine) Provision(ctx context.Context) (string, error) {
	if err := x.requireAPIKey(); err != nil {
		return "", err
	}
	profile, err := x.Profile()
	if err != nil {
		return "", err
	}
	return openaiengine.Provision(ctx, x.openaiAPIKey, profile, x.openaiOptions()...)
}
