package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/cruizviquez/multi-platform-blog-poster/pkg/llm"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/logging"
)

type completerStub struct {
	responses []string
	err       error
	calls     int
	requests  []llm.CompletionRequest
}

func (s *completerStub) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stub exhausted")
	}
	text := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return text, nil
}

func newTestGenerator(t *testing.T, stub *completerStub) (*Generator, *HistoryStore) {
	t.Helper()
	history := newTestHistory(t)
	gen := NewGenerator(stub, history, logging.NewLogger(),
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }),
		WithPause(func(time.Duration) {}),
	)
	return gen, history
}

func TestGenerateProducesRecord(t *testing.T) {
	stub := &completerStub{responses: []string{"Did you know transformers use attention to weigh every token?"}}
	gen, history := newTestGenerator(t, stub)

	rec, err := gen.Generate(context.Background(), "did_you_know", "transformers")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.Content != "Did you know transformers use attention to weigh every token?" {
		t.Fatalf("unexpected content %q", rec.Content)
	}
	if rec.Type != "did_you_know" || rec.Topic != "transformers" {
		t.Fatalf("unexpected type/topic %q/%q", rec.Type, rec.Topic)
	}
	if rec.Hash != Fingerprint(rec.Content) {
		t.Fatal("record hash must be the content fingerprint")
	}
	if rec.ID == "" {
		t.Fatal("record must get an ID")
	}
	if history.Len() != 1 {
		t.Fatalf("accepted record must be recorded in history, len=%d", history.Len())
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single completion call, got %d", stub.calls)
	}
}

func TestGenerateSendsBudgetedTemperature(t *testing.T) {
	stub := &completerStub{responses: []string{"A fresh insight about MLOps pipelines."}}
	gen, _ := newTestGenerator(t, stub)

	if _, err := gen.Generate(context.Background(), "quick_tip", "MLOps"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := stub.requests[0]
	if req.Temperature < 0.8 || req.Temperature >= 1.0 {
		t.Fatalf("temperature must stay in [0.8,1.0), got %v", req.Temperature)
	}
	if req.MaxTokens != maxCompletionTokens {
		t.Fatalf("unexpected max tokens %d", req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Fatalf("unexpected message roles %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "MLOps") {
		t.Fatal("user prompt must mention the topic")
	}
}

func TestGenerateTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("All work and no play makes for dull models. ", 20)
	stub := &completerStub{responses: []string{long}}
	gen, _ := newTestGenerator(t, stub)

	rec, err := gen.Generate(context.Background(), "tutorial", "LLMs")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := len([]rune(rec.Content)); got != maxPostLen {
		t.Fatalf("expected %d chars, got %d", maxPostLen, got)
	}
	if !strings.HasSuffix(rec.Content, "...") {
		t.Fatal("truncated content must end with ellipsis")
	}
}

func TestGenerateExhaustsRetryBudget(t *testing.T) {
	duplicate := "The same stale insight about neural networks every single time."
	stub := &completerStub{responses: []string{duplicate}}
	gen, history := newTestGenerator(t, stub)

	// Prime history so every attempt is rejected.
	history.Add(Record{Content: duplicate, Hash: Fingerprint(duplicate)})
	primed := history.Len()

	_, err := gen.Generate(context.Background(), "hot_take", "neural networks")
	if !errors.Is(err, ErrNoUniqueContent) {
		t.Fatalf("expected ErrNoUniqueContent, got %v", err)
	}
	if stub.calls != 4 {
		t.Fatalf("expected initial attempt plus 3 retries = 4 calls, got %d", stub.calls)
	}
	if history.Len() != primed {
		t.Fatalf("failed generation must not touch history: %d -> %d", primed, history.Len())
	}
}

func TestGenerateRetriesWithFreshTopic(t *testing.T) {
	duplicate := "The same stale insight about neural networks every single time."
	stub := &completerStub{responses: []string{duplicate, "A genuinely new angle on federated learning tradeoffs."}}
	gen, history := newTestGenerator(t, stub)
	history.Add(Record{Content: duplicate, Hash: Fingerprint(duplicate)})

	rec, err := gen.Generate(context.Background(), "hot_take", "neural networks")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.Type != "hot_take" {
		t.Fatalf("content type must survive retries, got %q", rec.Type)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", stub.calls)
	}
	// The retry draws its topic from the enumeration instead of keeping the
	// caller-provided one.
	found := false
	for _, topic := range Topics {
		if rec.Topic == topic {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("retry topic %q not drawn from the enumeration", rec.Topic)
	}
}

func TestGenerateServiceFailure(t *testing.T) {
	stub := &completerStub{err: errors.New("upstream unreachable")}
	gen, history := newTestGenerator(t, stub)

	_, err := gen.Generate(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected error when completion service fails")
	}
	if errors.Is(err, ErrNoUniqueContent) {
		t.Fatal("service failure must not masquerade as duplicate exhaustion")
	}
	if history.Len() != 0 {
		t.Fatal("failed generation must not touch history")
	}
}

func TestGenerateDailyBatchVariety(t *testing.T) {
	stub := &completerStub{responses: []string{}}
	for i := 0; i < 6; i++ {
		stub.responses = append(stub.responses, fmt.Sprintf("Batch insight number %d, each one distinct from its siblings.", i))
	}
	// Final response feeds the thread generation.
	stub.responses = append(stub.responses, "1/3: First part.\n2/3: Second part.\n3/3: Third part.")
	gen, _ := newTestGenerator(t, stub)

	batch := gen.GenerateDailyBatch(context.Background(), 6)

	var posts, threadParts []Record
	for _, rec := range batch {
		if rec.Type == "thread" {
			threadParts = append(threadParts, rec)
		} else {
			posts = append(posts, rec)
		}
	}
	if len(posts) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(posts))
	}
	if len(threadParts) != 3 {
		t.Fatalf("expected 3 thread parts, got %d", len(threadParts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Type == posts[i-1].Type {
			t.Fatalf("adjacent batch items share content type %q", posts[i].Type)
		}
		if posts[i].Topic == posts[i-1].Topic {
			t.Fatalf("adjacent batch items share topic %q", posts[i].Topic)
		}
	}
}

func TestGenerateThreadParsesParts(t *testing.T) {
	stub := &completerStub{responses: []string{
		"Intro line without a marker\n1/3: Attention weighs tokens.\n2/3: Context windows bound it.\n3/3: Sparse attention scales it.",
	}}
	gen, _ := newTestGenerator(t, stub)

	thread, err := gen.GenerateThread(context.Background(), "transformers", 3)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(thread))
	}
	if thread[0].Content != "Attention weighs tokens." {
		t.Fatalf("unexpected first part %q", thread[0].Content)
	}
	if thread[2].ThreadPosition != "3/3" {
		t.Fatalf("unexpected position %q", thread[2].ThreadPosition)
	}
	for _, part := range thread {
		if part.Type != "thread" || part.Topic != "transformers" {
			t.Fatalf("unexpected part metadata %+v", part)
		}
	}
}
