package gollem

import (
	"context"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// declaration exposes a tool spec to the model without executing it. Calls
// are surfaced to the dispatch loop as a requires_action run instead.
type declaration struct {
	spec gollem.ToolSpec
}

func (d *declaration) Spec() gollem.ToolSpec {
	return d.spec
}

func (d *declaration) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return nil, goerr.New("tool is dispatched outside of the model session", goerr.V("name", d.spec.Name))
}

func declarations() []gollem.Tool {
	specs := tool.Specs()
	tools := make([]gollem.Tool, len(specs))
	for i, spec := range specs {
		tools[i] = &declaration{spec: spec}
	}
	return tools
}
