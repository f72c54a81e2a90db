package tool

import (
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/m-mizutani/gollem"
)

func nameParam(desc string) *gollem.Parameter {
	return &gollem.Parameter{
		Type:        gollem.TypeString,
		Description: desc,
		Required:    true,
	}
}

func relationshipParam() *gollem.Parameter {
	return &gollem.Parameter{
		Type:        gollem.TypeString,
		Description: "How the user knows this person. Used only when the person is not known yet and has to be created",
	}
}

// Specs declares every tool to the reasoning engine, in a stable order
func Specs() []gollem.ToolSpec {
	return []gollem.ToolSpec{
		{
			Name:        types.ToolAddPerson.String(),
			Description: "Add a new person to the user's friend list. Fails if someone with the exact same name already exists.",
			Parameters: map[string]*gollem.Parameter{
				"name": nameParam("Full name of the person as the user refers to them"),
				"relationship": {
					Type:        gollem.TypeString,
					Description: "How the user knows this person, e.g. 'college roommate'",
					Required:    true,
				},
			},
		},
		{
			Name:        types.ToolUpdateName.String(),
			Description: "Rename a known person. Facts and lists are kept.",
			Parameters: map[string]*gollem.Parameter{
				"person": nameParam("Current exact name of the person"),
				"name":   nameParam("New name of the person"),
			},
		},
		{
			Name:        types.ToolAddListData.String(),
			Description: "Add a value to a named list about a person, such as hobbies, gift ideas or places visited. Adding an existing value only updates its timestamp.",
			Parameters: map[string]*gollem.Parameter{
				"name":  nameParam("Name or unique name prefix of the person"),
				"key":   nameParam("Name of the list, e.g. 'hobbies'"),
				"value": nameParam("Value to add to the list"),
				"timestamp": {
					Type:        gollem.TypeString,
					Description: "When this happened or was mentioned, if relevant",
				},
				"relationship": relationshipParam(),
			},
		},
		{
			Name:        types.ToolRemoveListData.String(),
			Description: "Remove a value from a named list about a person.",
			Parameters: map[string]*gollem.Parameter{
				"name":         nameParam("Name or unique name prefix of the person"),
				"key":          nameParam("Name of the list"),
				"value":        nameParam("Value to remove from the list"),
				"relationship": relationshipParam(),
			},
		},
		{
			Name:        types.ToolSetFact.String(),
			Description: "Record a single fact about a person, replacing any previous value of the same fact. The keys 'name', 'id' and 'lists' are reserved.",
			Parameters: map[string]*gollem.Parameter{
				"name":  nameParam("Name or unique name prefix of the person"),
				"key":   nameParam("Fact name, e.g. 'birthday'"),
				"value": nameParam("Fact value"),
				"confidence": {
					Type:        gollem.TypeString,
					Description: "How sure the user is about this fact",
					Enum:        []string{types.ConfidenceHigh.String(), types.ConfidenceMedium.String(), types.ConfidenceLow.String()},
					Required:    true,
				},
				"importance": {
					Type:        gollem.TypeNumber,
					Description: "How important this fact is to remember, from 0 to 10",
					Required:    true,
				},
				"relationship": relationshipParam(),
			},
		},
		{
			Name:        types.ToolGetPerson.String(),
			Description: "Look up everything known about a person, or a single attribute of them.",
			Parameters: map[string]*gollem.Parameter{
				"name": nameParam("Name or unique name prefix of the person"),
				"attribute": {
					Type:        gollem.TypeString,
					Description: "A fact name or 'lists' to narrow the result",
				},
				"relationship": relationshipParam(),
			},
		},
	}
}
