package tool

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Failure reasons reported back to the reasoning engine
const (
	ReasonAlreadyExists   = "Person already exists"
	ReasonNotFound        = "Person not found"
	ReasonAmbiguous       = "Ambiguous person, multiple people match name"
	ReasonReservedFactKey = "Reserved fact key"
	ReasonUnknownTool     = "Unknown tool"
	reasonInvalidPrefix   = "Invalid arguments: "
)

// Result is the structured output of a tool call
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Person  any    `json:"person,omitempty"`
}

func Succeeded() *Result {
	return &Result{Success: true}
}

// SucceededWithPerson carries a person projection, either a
// *model.PersonView or a narrowed attribute map
func SucceededWithPerson(person any) *Result {
	return &Result{Success: true, Person: person}
}

func Failed(reason string) *Result {
	return &Result{Success: false, Reason: reason}
}

// InvalidArguments reports a decoding problem of the call arguments
func InvalidArguments(detail string) *Result {
	return Failed(reasonInvalidPrefix + detail)
}

// Encode renders the result as the JSON text submitted to the engine
func (r *Result) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode tool result")
	}
	return string(data), nil
}
