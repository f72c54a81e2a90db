package types

// ToolName identifies one of the operations exposed to the reasoning engine
type ToolName string

const (
	ToolAddPerson      ToolName = "add_person"
	ToolUpdateName     ToolName = "update_name"
	ToolAddListData    ToolName = "add_list_data"
	ToolRemoveListData ToolName = "remove_list_data"
	ToolSetFact        ToolName = "set_fact"
	ToolGetPerson      ToolName = "get_person"
)

// AllToolNames returns every tool name in declaration order
func AllToolNames() []ToolName {
	return []ToolName{
		ToolAddPerson,
		ToolUpdateName,
		ToolAddListData,
		ToolRemoveListData,
		ToolSetFact,
		ToolGetPerson,
	}
}

// IsValid checks if the tool name is known
func (n ToolName) IsValid() bool {
	switch n {
	case ToolAddPerson,
		ToolUpdateName,
		ToolAddListData,
		ToolRemoveListData,
		ToolSetFact,
		ToolGetPerson:
		return true
	default:
		return false
	}
}

// IsPersonScoped reports whether the tool must resolve a person by name
// before it runs
func (n ToolName) IsPersonScoped() bool {
	switch n {
	case ToolAddListData, ToolRemoveListData, ToolSetFact, ToolGetPerson:
		return true
	default:
		return false
	}
}

func (n ToolName) String() string {
	return string(n)
}
