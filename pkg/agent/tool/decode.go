package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Decode parses the raw JSON arguments of a tool call into its argument
// record
func Decode(name string, arguments string) (Call, error) {
	toolName := types.ToolName(name)
	if !toolName.IsValid() {
		return nil, goerr.Wrap(ErrUnknownTool, "tool is not declared", goerr.V("name", name))
	}

	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}

	var (
		call Call
		err  error
	)
	switch toolName {
	case types.ToolAddPerson:
		call, err = decodeAs[AddPerson](arguments)
	case types.ToolUpdateName:
		call, err = decodeAs[UpdateName](arguments)
	case types.ToolAddListData:
		call, err = decodeAs[AddListData](arguments)
	case types.ToolRemoveListData:
		call, err = decodeAs[RemoveListData](arguments)
	case types.ToolSetFact:
		call, err = decodeAs[SetFact](arguments)
	case types.ToolGetPerson:
		call, err = decodeAs[GetPerson](arguments)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode tool call", goerr.V("name", name))
	}

	if err := validate(call); err != nil {
		return nil, goerr.Wrap(ErrMalformedArguments, "arguments failed validation",
			goerr.V("name", name), goerr.V(detailKey, err.Error()))
	}
	return call, nil
}

const detailKey = "detail"

// MalformedDetail extracts the human readable cause from an
// ErrMalformedArguments error
func MalformedDetail(err error) string {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if detail, ok := ge.Values()[detailKey].(string); ok {
			return detail
		}
	}
	return err.Error()
}

func decodeAs[T Call](arguments string) (Call, error) {
	var v T
	if err := json.Unmarshal([]byte(arguments), &v); err != nil {
		return nil, goerr.Wrap(ErrMalformedArguments, "arguments are not valid JSON", goerr.V(detailKey, err.Error()))
	}
	return v, nil
}

func validate(call Call) error {
	var missing []string
	require := func(field, value string) {
		if value == "" {
			missing = append(missing, field)
		}
	}

	switch c := call.(type) {
	case AddPerson:
		require("name", c.Name)
	case UpdateName:
		require("person", c.Person)
		require("name", c.Name)
	case AddListData:
		require("name", c.Name)
		require("key", c.Key)
		require("value", c.Value)
	case RemoveListData:
		require("name", c.Name)
		require("key", c.Key)
		require("value", c.Value)
	case SetFact:
		require("name", c.Name)
		require("key", c.Key)
		if !c.Confidence.IsValid() {
			return fmt.Errorf("invalid confidence: %q", c.Confidence)
		}
	case GetPerson:
		require("name", c.Name)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
