package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume/job-description analysis.
// Implementations must return the model's raw JSON object output; shape
// validation happens in ParseResult, never inside a provider.
type Client interface {
	Analyze(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for one analysis call.
type AnalyzeInput struct {
	ResumeText     string
	JobDescription string
}

// ErrNotConfigured is returned when no provider has been wired.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Analyze returns ErrNotConfigured.
func (PlaceholderClient) Analyze(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}
