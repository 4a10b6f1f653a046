package config

import (
	"sync"
)

// The loaded prompt store is process-wide: prompt files are read once at
// startup and then only read by the AI layer.
var (
	loadedPrompts     AllLoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedSystemPrompts holds file-sourced system personas per operation.
type LoadedSystemPrompts struct {
	Analyze string
	Focus   string
	Careers string
	Ats     string
}

// LoadedUserPrompts holds file-sourced user templates per operation.
type LoadedUserPrompts struct {
	Analyze string
	Focus   string
	Careers string
	Ats     string
}

// LoadedPrompts pairs the system and user prompt sets.
type LoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// OperationLoadedPrompts is one operation's slice of the store.
type OperationLoadedPrompts struct {
	SystemPrompts LoadedSystemPrompts
	UserPrompts   LoadedUserPrompts
}

// AllLoadedPrompts is the full store: a global block plus one block per
// operation. Operation blocks win over the global block at prompt
// resolution time.
type AllLoadedPrompts struct {
	Global  LoadedPrompts
	Analyze OperationLoadedPrompts
	Focus   OperationLoadedPrompts
	Careers OperationLoadedPrompts
	Ats     OperationLoadedPrompts
}

// GetPromptsForOperation returns the loaded prompts for an operation type.
// Unknown operation names fall back to the global block.
func GetPromptsForOperation(operationType string) OperationLoadedPrompts {
	switch operationType {
	case "analyze":
		return loadedPrompts.Analyze
	case "focus":
		return loadedPrompts.Focus
	case "careers":
		return loadedPrompts.Careers
	case "ats":
		return loadedPrompts.Ats
	default:
		return OperationLoadedPrompts{
			SystemPrompts: loadedPrompts.Global.SystemPrompts,
			UserPrompts:   loadedPrompts.Global.UserPrompts,
		}
	}
}
