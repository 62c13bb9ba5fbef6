package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// listLen is the fixed length of every list field in a Result.
const listLen = 5

var (
	// ErrMalformedOutput indicates the model output could not be parsed as JSON.
	ErrMalformedOutput = errors.New("malformed model output")
	// ErrSchemaViolation indicates parseable output that breaks the response contract.
	ErrSchemaViolation = errors.New("model output violates schema")
)

// SchemaError names the field that broke the response contract.
type SchemaError struct {
	Field string
	Issue string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model output violates schema: field %s %s", e.Field, e.Issue)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaViolation }

// Result is the fixed-shape analysis object the model is contracted to return.
type Result struct {
	OverallScore       float64  `json:"overallScore"`
	RejectionRisk      string   `json:"rejectionRisk"`
	WhyFit             []string `json:"whyFit"`
	SkillGapAnalysis   []string `json:"skillGapAnalysis"`
	InterviewQuestions []string `json:"interviewQuestions"`
	ResumeFixes        []string `json:"resumeFixes"`
}

// ParseResult parses and validates raw model output against the response
// contract. The model's adherence is never trusted implicitly: parse failures
// surface ErrMalformedOutput, shape failures ErrSchemaViolation.
func ParseResult(raw json.RawMessage) (Result, error) {
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := res.Validate(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Validate checks the score range and the exact-five-entries list invariant.
func (r Result) Validate() error {
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return &SchemaError{Field: "overallScore", Issue: fmt.Sprintf("out of range: %v", r.OverallScore)}
	}
	if r.RejectionRisk == "" {
		return &SchemaError{Field: "rejectionRisk", Issue: "missing or empty"}
	}
	lists := []struct {
		name   string
		values []string
	}{
		{"whyFit", r.WhyFit},
		{"skillGapAnalysis", r.SkillGapAnalysis},
		{"interviewQuestions", r.InterviewQuestions},
		{"resumeFixes", r.ResumeFixes},
	}
	for _, l := range lists {
		if len(l.values) != listLen {
			return &SchemaError{Field: l.name, Issue: fmt.Sprintf("expected exactly %d entries, got %d", listLen, len(l.values))}
		}
	}
	return nil
}
