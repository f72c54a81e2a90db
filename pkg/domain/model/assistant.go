package model

// AssistantProfile describes the assistant persona given to the reasoning
// engine. It is loaded from a TOML file.
type AssistantProfile struct {
	Name         string `toml:"name"`
	Model        string `toml:"model"`
	Instructions string `toml:"instructions"`
}

// DefaultAssistantProfile is used when no profile file is configured
func DefaultAssistantProfile() *AssistantProfile {
	return &AssistantProfile{
		Name:  "Friendbook",
		Model: "gpt-4o",
		Instructions: `You help the user remember the people in their life.
When the user mentions a person, record what you learn with the tools: facts such as birthdays or employers with set_fact, and repeating things such as hobbies, gift ideas or places visited with add_list_data.
Look people up with get_person before answering questions about them.
Refer to people by the name the user uses. If a tool reports that a name is ambiguous, ask the user which person they mean.
Keep replies short and friendly.`,
	}
}
