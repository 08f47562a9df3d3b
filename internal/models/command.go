package models

// ResultType classifies a slash-command result for rendering.
type ResultType string

const (
	ResultText    ResultType = "text"
	ResultMap     ResultType = "map"
	ResultWeather ResultType = "weather"
	ResultImage   ResultType = "image"
	ResultError   ResultType = "error"
)

// Voice selects the synthesized voice for spoken results.
type Voice string

const (
	VoiceFemale Voice = "FEMALE"
	VoiceMale   Voice = "MALE"
)

// CommandResult is the envelope every slash-command handler produces.
// It is ephemeral: the chat layer converts it into a Message immediately.
// Speak marks the result for best-effort speech playback by a separate
// subscriber; handlers never talk to the speech subsystem directly.
type CommandResult struct {
	Content string
	Type    ResultType
	Data    map[string]any
	Speak   bool
	Voice   Voice
	// Clear asks the caller to empty the active conversation.
	Clear bool
}

// Recipe is the schema-constrained payload returned by the /recept command.
type Recipe struct {
	RecipeName   string   `json:"recipeName"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}
