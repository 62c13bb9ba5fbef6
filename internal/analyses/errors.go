package analyses

import "errors"

var (
	// ErrNotFound is returned for an absent record or one owned by another user.
	ErrNotFound = errors.New("analysis not found")
	// ErrBadInput rejects a request missing the document or the job description.
	ErrBadInput = errors.New("resume and job description are required")
	// ErrInference wraps external inference failures, including contract violations.
	ErrInference = errors.New("inference failed")
	// ErrStore wraps persistence failures.
	ErrStore = errors.New("analysis store failed")
)
