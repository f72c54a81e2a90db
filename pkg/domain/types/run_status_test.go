package types_test

import (
	"testing"

	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestRunStatus_State(t *testing.T) {
	tests := []struct {
		status   types.RunStatus
		want     types.RunState
		terminal bool
	}{
		{status: types.RunStatusQueued, want: types.RunStateActive},
		{status: types.RunStatusInProgress, want: types.RunStateActive},
		{status: types.RunStatusCancelling, want: types.RunStateActive},
		{status: types.RunStatusRequiresAction, want: types.RunStateRequiresAction},
		{status: types.RunStatusCompleted, want: types.RunStateCompleted, terminal: true},
		{status: types.RunStatusFailed, want: types.RunStateFailed, terminal: true},
		{status: types.RunStatusCancelled, want: types.RunStateFailed, terminal: true},
		{status: types.RunStatusExpired, want: types.RunStateFailed, terminal: true},
		{status: types.RunStatusIncomplete, want: types.RunStateFailed, terminal: true},
		{status: types.RunStatus("something_new"), want: types.RunStateFailed, terminal: true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			gt.Value(t, tt.status.State()).Equal(tt.want)
			gt.Value(t, tt.status.IsTerminal()).Equal(tt.terminal)
		})
	}
}

func TestToolName(t *testing.T) {
	t.Run("all names are valid", func(t *testing.T) {
		for _, name := range types.AllToolNames() {
			gt.Bool(t, name.IsValid()).True()
		}
	})

	t.Run("person scoped tools", func(t *testing.T) {
		gt.Bool(t, types.ToolSetFact.IsPersonScoped()).True()
		gt.Bool(t, types.ToolGetPerson.IsPersonScoped()).True()
		gt.Bool(t, types.ToolAddListData.IsPersonScoped()).True()
		gt.Bool(t, types.ToolRemoveListData.IsPersonScoped()).True()
		gt.Bool(t, types.ToolAddPerson.IsPersonScoped()).False()
		gt.Bool(t, types.ToolUpdateName.IsPersonScoped()).False()
	})

	t.Run("unknown name", func(t *testing.T) {
		gt.Bool(t, types.ToolName("delete_person").IsValid()).False()
	})
}
