package analyses

import (
	"time"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm"
)

// Record is the durable trace of one completed analysis. Records are created
// on fresh inference only, never mutated, and deleted only by their owner.
type Record struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	JobDescription string     `json:"jd"`
	Score          int        `json:"score"`
	Analysis       llm.Result `json:"analysis"`
	CreatedAt      time.Time  `json:"createdAt"`
}
