package llm

import (
	_ "embed"
	"fmt"
)

//go:embed prompts/system.txt
var systemPrompt string

// SystemPrompt returns the system instruction fixing the exact response shape.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt renders the user message for one analysis call.
func UserPrompt(input AnalyzeInput) string {
	return fmt.Sprintf("JD: %s \n\n RESUME: %s", input.JobDescription, input.ResumeText)
}
