package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/cache"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/extract"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/metrics"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/telemetry"
)

// Request carries the inputs for one pipeline invocation. It exists only for
// the duration of the call and is never persisted.
type Request struct {
	UserID         string
	JobDescription string
	Document       []byte
	MimeType       string
	FileName       string
}

// Service runs the analysis pipeline: validate, extract, cache read, infer,
// persist, cache write. The cache and store clients are shared, constructed
// once at process start, and safe for concurrent use.
type Service struct {
	Repo         Repo
	Cache        cache.ResultCache
	LLM          llm.Client
	CacheTTL     time.Duration
	InferTimeout time.Duration

	flight singleflight.Group
}

// Analyze runs the pipeline for one request. It reports whether the result
// came from the cache; no new record is written on a hit.
func (s *Service) Analyze(ctx context.Context, req Request) (llm.Result, bool, error) {
	if len(req.Document) == 0 || strings.TrimSpace(req.JobDescription) == "" || strings.TrimSpace(req.UserID) == "" {
		return llm.Result{}, false, ErrBadInput
	}
	metrics.IncAnalysisStarted()
	start := time.Now()

	resumeText, err := extract.ExtractTextFromBytes(ctx, req.Document, req.MimeType, req.FileName)
	if err != nil {
		metrics.IncAnalysisFailed()
		return llm.Result{}, false, err
	}

	key := cache.Key(req.UserID, req.JobDescription)

	if result, ok := s.cacheLookup(ctx, key); ok {
		metrics.IncCacheHit()
		metrics.IncAnalysisCompleted()
		metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
		return result, true, nil
	}
	metrics.IncCacheMiss()

	// Concurrent identical misses share one inference call per cache key.
	shared, err, _ := s.flight.Do(key, func() (any, error) {
		return s.inferAndPersist(ctx, key, req, resumeText)
	})
	if err != nil {
		metrics.IncAnalysisFailed()
		return llm.Result{}, false, err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return shared.(llm.Result), false, nil
}

// History returns the owner's records, newest first.
func (s *Service) History(ctx context.Context, ownerID string) ([]Record, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrBadInput
	}
	recs, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return recs, nil
}

// Delete removes an owner's record. Records owned by other users report
// ErrNotFound and remain in the store.
func (s *Service) Delete(ctx context.Context, ownerID, recordID string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(recordID) == "" {
		return ErrBadInput
	}
	deleted, err := s.Repo.DeleteByOwner(ctx, ownerID, recordID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// cacheLookup reads the cache, treating backend failures and undecodable
// entries as misses. Cache unavailability never fails the pipeline.
func (s *Service) cacheLookup(ctx context.Context, key string) (llm.Result, bool) {
	if s.Cache == nil {
		return llm.Result{}, false
	}
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		telemetry.Warn("cache.read_failed", map[string]any{"key": key, "error": err.Error()})
		return llm.Result{}, false
	}
	if !ok {
		return llm.Result{}, false
	}
	var result llm.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		telemetry.Warn("cache.entry_undecodable", map[string]any{"key": key, "error": err.Error()})
		return llm.Result{}, false
	}
	return result, true
}

func (s *Service) inferAndPersist(ctx context.Context, key string, req Request, resumeText string) (llm.Result, error) {
	inferCtx := ctx
	if s.InferTimeout > 0 {
		var cancel context.CancelFunc
		inferCtx, cancel = context.WithTimeout(ctx, s.InferTimeout)
		defer cancel()
	}

	metrics.IncInferenceCall()
	raw, err := s.LLM.Analyze(inferCtx, llm.AnalyzeInput{
		ResumeText:     resumeText,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		return llm.Result{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	result, err := llm.ParseResult(raw)
	if err != nil {
		return llm.Result{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	rec := Record{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		JobDescription: req.JobDescription,
		Score:          int(math.Round(result.OverallScore)),
		Analysis:       result,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Insert(ctx, rec); err != nil {
		// The computed result is still returned; the record is absent from
		// history and the cache stays cold so a resubmit can persist it.
		telemetry.Error("analysis.store_failed", map[string]any{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		return result, nil
	}

	s.cacheWrite(ctx, key, result)
	return result, nil
}

// cacheWrite populates the cache after a fresh inference. Write failures are
// logged and swallowed.
func (s *Service) cacheWrite(ctx context.Context, key string, result llm.Result) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		telemetry.Error("cache.marshal_failed", map[string]any{"key": key, "error": err.Error()})
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if err := s.Cache.Set(ctx, key, payload, ttl); err != nil {
		telemetry.Warn("cache.write_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// IsExtractionError reports whether err came from document extraction.
func IsExtractionError(err error) bool {
	var extractErr *extract.Error
	return errors.As(err, &extractErr)
}
