package openai

import (
	"context"
	"slices"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/sashabaranov/go-openai"
)

// Provision creates an assistant from profile with every tool declared and
// returns its id
func Provision(ctx context.Context, apiKey string, profile *model.AssistantProfile, opts ...Option) (string, error) {
	if apiKey == "" {
		return "", goerr.New("openai api key is required")
	}

	specs := tool.Specs()
	tools := make([]openai.AssistantTool, len(specs))
	for i, spec := range specs {
		tools[i] = openai.AssistantTool{
			Type:     openai.AssistantToolTypeFunction,
			Function: toFunctionDefinition(spec),
		}
	}

	client := newClient(apiKey, opts...)
	assistant, err := client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        profile.Model,
		Name:         &profile.Name,
		Instructions: &profile.Instructions,
		Tools:        tools,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create assistant",
			goerr.V("name", profile.Name), goerr.V("model", profile.Model))
	}

	return assistant.ID, nil
}

// toFunctionDefinition renders a tool declaration as a JSON schema
func toFunctionDefinition(spec gollem.ToolSpec) *openai.FunctionDefinition {
	properties := make(map[string]any, len(spec.Parameters))
	required := []string{}
	for name, param := range spec.Parameters {
		prop := map[string]any{
			"type":        string(param.Type),
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		properties[name] = prop

		if param.Required {
			required = append(required, name)
		}
	}
	slices.Sort(required)

	return &openai.FunctionDefinition{
		Name:        spec.Name,
		Description: spec.Description,
		Parameters: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
