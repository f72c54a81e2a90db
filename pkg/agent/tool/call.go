// Package tool defines the operations the reasoning engine may request on
// the knowledge store: their argument records, decoding, declarations and
// results.
package tool

import "github.com/caeleel/friendbook/pkg/domain/types"

// Call is one decoded tool call. The set of implementations is closed; use a
// type switch over the six argument records.
type Call interface {
	ToolName() types.ToolName
	isCall()
}

// PersonScoped is implemented by calls that act on a person resolved by name
// prefix. Relationship is used when the person has to be created.
type PersonScoped interface {
	Call
	PersonName() string
	PersonRelationship() string
}

type AddPerson struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// UpdateName renames Person to Name
type UpdateName struct {
	Person string `json:"person"`
	Name   string `json:"name"`
}

type AddListData struct {
	Name         string  `json:"name"`
	Key          string  `json:"key"`
	Value        string  `json:"value"`
	Timestamp    *string `json:"timestamp,omitempty"`
	Relationship string  `json:"relationship,omitempty"`
}

type RemoveListData struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	Value        string `json:"value"`
	Relationship string `json:"relationship,omitempty"`
}

type SetFact struct {
	Name         string           `json:"name"`
	Key          string           `json:"key"`
	Value        string           `json:"value"`
	Confidence   types.Confidence `json:"confidence"`
	Importance   float64          `json:"importance"`
	Relationship string           `json:"relationship,omitempty"`
}

// GetPerson reads a person. A non-empty Attribute narrows the result to one
// fact or to the lists.
type GetPerson struct {
	Name         string `json:"name"`
	Attribute    string `json:"attribute,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

func (AddPerson) ToolName() types.ToolName      { return types.ToolAddPerson }
func (UpdateName) ToolName() types.ToolName     { return types.ToolUpdateName }
func (AddListData) ToolName() types.ToolName    { return types.ToolAddListData }
func (RemoveListData) ToolName() types.ToolName { return types.ToolRemoveListData }
func (SetFact) ToolName() types.ToolName        { return types.ToolSetFact }
func (GetPerson) ToolName() types.ToolName      { return types.ToolGetPerson }

func (AddPerson) isCall()      {}
func (UpdateName) isCall()     {}
func (AddListData) isCall()    {}
func (RemoveListData) isCall() {}
func (SetFact) isCall()        {}
func (GetPerson) isCall()      {}

func (c AddListData) PersonName() string    { return c.Name }
func (c RemoveListData) PersonName() string { return c.Name }
func (c SetFact) PersonName() string        { return c.Name }
func (c GetPerson) PersonName() string      { return c.Name }

func (c AddListData) PersonRelationship() string    { return c.Relationship }
func (c RemoveListData) PersonRelationship() string { return c.Relationship }
func (c SetFact) PersonRelationship() string        { return c.Relationship }
func (c GetPerson) PersonRelationship() string      { return c.Relationship }

var (
	_ PersonScoped = AddListData{}
	_ PersonScoped = RemoveListData{}
	_ PersonScoped = SetFact{}
	_ PersonScoped = GetPerson{}
)
