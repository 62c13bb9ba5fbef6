package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func validResultJSON() string {
	return `{
		"overallScore": 87,
		"rejectionRisk": "Low",
		"whyFit": ["a","b","c","d","e"],
		"skillGapAnalysis": ["a","b","c","d","e"],
		"interviewQuestions": ["a","b","c","d","e"],
		"resumeFixes": ["a","b","c","d","e"]
	}`
}

func TestParseResultValid(t *testing.T) {
	res, err := ParseResult(json.RawMessage(validResultJSON()))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.OverallScore != 87 {
		t.Fatalf("unexpected score: %v", res.OverallScore)
	}
	if len(res.InterviewQuestions) != 5 {
		t.Fatalf("unexpected interviewQuestions length: %d", len(res.InterviewQuestions))
	}
}

func TestParseResultMalformed(t *testing.T) {
	_, err := ParseResult(json.RawMessage(`not json at all`))
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResultShortList(t *testing.T) {
	raw := `{
		"overallScore": 50,
		"rejectionRisk": "High",
		"whyFit": ["a","b","c","d"],
		"skillGapAnalysis": ["a","b","c","d","e"],
		"interviewQuestions": ["a","b","c","d","e"],
		"resumeFixes": ["a","b","c","d","e"]
	}`
	_, err := ParseResult(json.RawMessage(raw))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Field != "whyFit" {
		t.Fatalf("expected whyFit to be flagged, got %s", schemaErr.Field)
	}
}

func TestParseResultScoreOutOfRange(t *testing.T) {
	raw := `{
		"overallScore": 140,
		"rejectionRisk": "Low",
		"whyFit": ["a","b","c","d","e"],
		"skillGapAnalysis": ["a","b","c","d","e"],
		"interviewQuestions": ["a","b","c","d","e"],
		"resumeFixes": ["a","b","c","d","e"]
	}`
	_, err := ParseResult(json.RawMessage(raw))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestParseResultMissingRejectionRisk(t *testing.T) {
	raw := `{
		"overallScore": 50,
		"whyFit": ["a","b","c","d","e"],
		"skillGapAnalysis": ["a","b","c","d","e"],
		"interviewQuestions": ["a","b","c","d","e"],
		"resumeFixes": ["a","b","c","d","e"]
	}`
	_, err := ParseResult(json.RawMessage(raw))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if schemaErr.Field != "rejectionRisk" {
		t.Fatalf("expected rejectionRisk to be flagged, got %s", schemaErr.Field)
	}
}
