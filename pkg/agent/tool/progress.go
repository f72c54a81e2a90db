package tool

import (
	"context"
	"fmt"
)

// ProgressFunc is notified of each tool call right before it is
// dispatched
type ProgressFunc func(ctx context.Context, call Call)

type progressKey struct{}

// WithProgress returns a context that reports dispatched calls to fn
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// Progress notifies the ProgressFunc in ctx, if any
func Progress(ctx context.Context, call Call) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok {
		fn(ctx, call)
	}
}

// Describe renders a call as a short status line for chat surfaces
func Describe(call Call) string {
	switch c := call.(type) {
	case AddPerson:
		return fmt.Sprintf("Adding %s", c.Name)
	case UpdateName:
		return fmt.Sprintf("Renaming %s to %s", c.Person, c.Name)
	case AddListData:
		return fmt.Sprintf("Adding %q to %s's %s", c.Value, c.Name, c.Key)
	case RemoveListData:
		return fmt.Sprintf("Removing %q from %s's %s", c.Value, c.Name, c.Key)
	case SetFact:
		return fmt.Sprintf("Noting %s's %s", c.Name, c.Key)
	case GetPerson:
		if c.Attribute != "" {
			return fmt.Sprintf("Looking up %s's %s", c.Name, c.Attribute)
		}
		return fmt.Sprintf("Looking up %s", c.Name)
	default:
		return call.ToolName().String()
	}
}
