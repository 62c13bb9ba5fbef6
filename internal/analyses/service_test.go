package analyses

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/cache"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm"
)

const validAnalysisJSON = `{
	"overallScore": 82,
	"rejectionRisk": "Low",
	"whyFit": ["a", "b", "c", "d", "e"],
	"skillGapAnalysis": ["a", "b", "c", "d", "e"],
	"interviewQuestions": ["a", "b", "c", "d", "e"],
	"resumeFixes": ["a", "b", "c", "d", "e"]
}`

type countingLLM struct {
	mu    sync.Mutex
	calls int
	raw   string
	err   error
}

func (c *countingLLM) Analyze(ctx context.Context, in llm.AnalyzeInput) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return json.RawMessage(c.raw), nil
}

func (c *countingLLM) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("cache backend down")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("cache backend down")
}

type failingRepo struct {
	MemoryRepo
}

func (r *failingRepo) Insert(ctx context.Context, rec Record) error {
	return errors.New("store unavailable")
}

// docxBytes builds a minimal DOCX archive holding the given paragraph.
func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newTestService(repo Repo, resultCache cache.ResultCache, client llm.Client) *Service {
	return &Service{
		Repo:         repo,
		Cache:        resultCache,
		LLM:          client,
		CacheTTL:     time.Hour,
		InferTimeout: 5 * time.Second,
	}
}

func testRequest(t *testing.T, userID, jd string) Request {
	return Request{
		UserID:         userID,
		JobDescription: jd,
		Document:       docxBytes(t, "Go engineer with five years of backend experience."),
		MimeType:       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FileName:       "resume.docx",
	}
}

func TestAnalyzeMissThenHit(t *testing.T) {
	repo := NewMemoryRepo()
	client := &countingLLM{raw: validAnalysisJSON}
	svc := newTestService(repo, cache.NewMemory(), client)
	ctx := context.Background()
	req := testRequest(t, "user-1", "Backend engineer, Go, Postgres.")

	first, hit, err := svc.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if hit {
		t.Fatalf("first call should be a miss")
	}
	if client.count() != 1 {
		t.Fatalf("expected 1 inference call, got %d", client.count())
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 stored record, got %d", repo.Count())
	}
	if first.OverallScore != 82 || first.RejectionRisk != "Low" {
		t.Fatalf("unexpected result: %+v", first)
	}

	second, hit, err := svc.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if !hit {
		t.Fatalf("second identical call should hit the cache")
	}
	if client.count() != 1 {
		t.Fatalf("cache hit must not call inference, got %d calls", client.count())
	}
	if repo.Count() != 1 {
		t.Fatalf("cache hit must not store a new record, got %d", repo.Count())
	}
	if second.OverallScore != first.OverallScore || len(second.WhyFit) != len(first.WhyFit) {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
}

func TestAnalyzeCacheIsOwnerScoped(t *testing.T) {
	repo := NewMemoryRepo()
	client := &countingLLM{raw: validAnalysisJSON}
	svc := newTestService(repo, cache.NewMemory(), client)
	ctx := context.Background()
	jd := "Backend engineer, Go, Postgres."

	if _, _, err := svc.Analyze(ctx, testRequest(t, "user-1", jd)); err != nil {
		t.Fatalf("analyze user-1: %v", err)
	}
	_, hit, err := svc.Analyze(ctx, testRequest(t, "user-2", jd))
	if err != nil {
		t.Fatalf("analyze user-2: %v", err)
	}
	if hit {
		t.Fatalf("another owner must not hit the first owner's cache entry")
	}
	if client.count() != 2 {
		t.Fatalf("expected 2 inference calls, got %d", client.count())
	}
}

func TestAnalyzeBadInput(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), cache.NewMemory(), &countingLLM{raw: validAnalysisJSON})

	req := testRequest(t, "user-1", "   ")
	if _, _, err := svc.Analyze(context.Background(), req); !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput for blank jd, got %v", err)
	}

	req = testRequest(t, "user-1", "a jd")
	req.Document = nil
	if _, _, err := svc.Analyze(context.Background(), req); !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput for missing document, got %v", err)
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	client := &countingLLM{raw: validAnalysisJSON}
	svc := newTestService(NewMemoryRepo(), cache.NewMemory(), client)

	req := Request{
		UserID:         "user-1",
		JobDescription: "a jd",
		Document:       []byte("not a real document"),
		MimeType:       "application/pdf",
		FileName:       "resume.pdf",
	}
	_, _, err := svc.Analyze(context.Background(), req)
	if err == nil {
		t.Fatalf("expected an extraction error")
	}
	if !IsExtractionError(err) {
		t.Fatalf("expected an extraction error, got %v", err)
	}
	if client.count() != 0 {
		t.Fatalf("extraction failure must not reach inference, got %d calls", client.count())
	}
}

func TestAnalyzeSchemaViolation(t *testing.T) {
	repo := NewMemoryRepo()
	client := &countingLLM{raw: `{"overallScore": 150, "rejectionRisk": "Low", "whyFit": ["a","b","c","d","e"], "skillGapAnalysis": ["a","b","c","d","e"], "interviewQuestions": ["a","b","c","d","e"], "resumeFixes": ["a","b","c","d","e"]}`}
	svc := newTestService(repo, cache.NewMemory(), client)

	_, _, err := svc.Analyze(context.Background(), testRequest(t, "user-1", "a jd"))
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference for out-of-range score, got %v", err)
	}
	if repo.Count() != 0 {
		t.Fatalf("invalid result must not be stored, got %d records", repo.Count())
	}
}

func TestAnalyzeInferenceFailure(t *testing.T) {
	repo := NewMemoryRepo()
	client := &countingLLM{err: errors.New("upstream 503")}
	svc := newTestService(repo, cache.NewMemory(), client)

	_, _, err := svc.Analyze(context.Background(), testRequest(t, "user-1", "a jd"))
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
	if repo.Count() != 0 {
		t.Fatalf("failed inference must not be stored, got %d records", repo.Count())
	}
}

func TestAnalyzeSurvivesCacheOutage(t *testing.T) {
	repo := NewMemoryRepo()
	client := &countingLLM{raw: validAnalysisJSON}
	svc := newTestService(repo, failingCache{}, client)
	ctx := context.Background()
	req := testRequest(t, "user-1", "a jd")

	_, hit, err := svc.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("analyze with broken cache: %v", err)
	}
	if hit {
		t.Fatalf("broken cache must degrade to a miss")
	}

	// With the cache down every identical request pays a fresh inference.
	if _, _, err := svc.Analyze(ctx, req); err != nil {
		t.Fatalf("second analyze with broken cache: %v", err)
	}
	if client.count() != 2 {
		t.Fatalf("expected 2 inference calls, got %d", client.count())
	}
}

func TestAnalyzeStoreFailureStillReturnsResult(t *testing.T) {
	repo := &failingRepo{}
	client := &countingLLM{raw: validAnalysisJSON}
	resultCache := cache.NewMemory()
	svc := newTestService(repo, resultCache, client)
	ctx := context.Background()
	req := testRequest(t, "user-1", "a jd")

	result, hit, err := svc.Analyze(ctx, req)
	if err != nil {
		t.Fatalf("analyze with failing store: %v", err)
	}
	if hit {
		t.Fatalf("expected a miss")
	}
	if result.OverallScore != 82 {
		t.Fatalf("expected the computed result back, got %+v", result)
	}

	// The cache stays cold after a store failure so a resubmit re-runs the
	// pipeline and gets another chance to persist.
	if _, hit, _ := svc.Analyze(ctx, req); hit {
		t.Fatalf("cache must stay cold after a store failure")
	}
	if client.count() != 2 {
		t.Fatalf("expected 2 inference calls, got %d", client.count())
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, cache.NewMemory(), &countingLLM{raw: validAnalysisJSON})
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		err := repo.Insert(ctx, Record{
			ID:        id,
			UserID:    "user-1",
			Score:     50 + i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	recs, err := svc.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].ID != "rec-3" || recs[2].ID != "rec-1" {
		t.Fatalf("expected newest first, got %s, %s, %s", recs[0].ID, recs[1].ID, recs[2].ID)
	}
}

func TestDeleteOwnerScoped(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, cache.NewMemory(), &countingLLM{raw: validAnalysisJSON})
	ctx := context.Background()

	err := repo.Insert(ctx, Record{ID: "rec-1", UserID: "user-1", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Delete(ctx, "user-2", "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}
	if repo.Count() != 1 {
		t.Fatalf("cross-owner delete must not remove the record")
	}

	if err := svc.Delete(ctx, "user-1", "rec-1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if repo.Count() != 0 {
		t.Fatalf("expected record removed, got %d", repo.Count())
	}

	if err := svc.Delete(ctx, "user-1", "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat delete: expected ErrNotFound, got %v", err)
	}
}
