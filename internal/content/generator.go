package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/pkg/llm"
)

const (
	// retryBudget is how many regeneration attempts follow the initial one
	// when the duplicate filter rejects the output.
	retryBudget = 3

	// maxPostLen is the hard upper bound applied to generated text before any
	// platform-specific formatting.
	maxPostLen = 250

	maxCompletionTokens = 150

	// batchPause spaces out completion calls during batch generation to stay
	// under the text service's rate limits.
	batchPause = 500 * time.Millisecond
)

// ErrNoUniqueContent is returned when the retry budget is exhausted without
// producing content that passes the duplicate filter. Callers treat it as a
// skip, not a fatal error.
var ErrNoUniqueContent = errors.New("could not produce unique content")

// Generator produces Records from the text-completion service, filtered
// against post history. Single-threaded use only.
type Generator struct {
	completer llm.Completer
	history   *HistoryStore
	logger    *logrus.Logger
	rng       *rand.Rand
	now       func() time.Time
	pause     func(time.Duration)

	// variety memory for batch generation
	recentTypes  []string
	recentTopics []string
}

// Option customizes a Generator, primarily for tests.
type Option func(*Generator)

// WithRand replaces the random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithPause replaces the inter-item delay used during batch generation.
func WithPause(pause func(time.Duration)) Option {
	return func(g *Generator) { g.pause = pause }
}

func NewGenerator(completer llm.Completer, history *HistoryStore, logger *logrus.Logger, opts ...Option) *Generator {
	g := &Generator{
		completer: completer,
		history:   history,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		pause:     time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) systemPrompt() string {
	return fmt.Sprintf("You are a PhD-level AI/ML expert. Create engaging, authoritative content that showcases deep expertise while being accessible. Never use hashtags. Be concise and impactful. Current date: %s. Make each post unique and fresh.",
		g.now().Format("January 2006"))
}

// Generate produces one post. Empty contentType or topic are drawn uniformly
// at random from the fixed enumerations. When the duplicate filter rejects
// the output, generation retries with the same content type and a fresh
// random topic until the retry budget runs out, then returns
// ErrNoUniqueContent. History is appended and persisted only on success.
func (g *Generator) Generate(ctx context.Context, contentType, topic string) (Record, error) {
	if contentType == "" {
		contentType = ContentTypes[g.rng.Intn(len(ContentTypes))]
	}

	for attempt := 0; attempt <= retryBudget; attempt++ {
		attemptTopic := topic
		if attemptTopic == "" {
			attemptTopic = Topics[g.rng.Intn(len(Topics))]
		}

		// Randomized creativity in [0.8, 1.0) to reduce repetition.
		temperature := 0.8 + g.rng.Float64()*0.2

		text, err := g.completer.Complete(ctx, llm.CompletionRequest{
			Messages: []llm.Message{
				{Role: "system", Content: g.systemPrompt()},
				{Role: "user", Content: promptFor(contentType, attemptTopic)},
			},
			Temperature: temperature,
			MaxTokens:   maxCompletionTokens,
		})
		if err != nil {
			return Record{}, fmt.Errorf("generate %s post: %w", contentType, err)
		}

		text = truncateHard(strings.TrimSpace(text), maxPostLen)

		if g.history.IsDuplicate(text) {
			g.logger.WithFields(logrus.Fields{
				"content_type": contentType,
				"topic":        attemptTopic,
				"attempt":      attempt + 1,
			}).Info("Duplicate detected, regenerating with a fresh topic")
			topic = ""
			continue
		}

		rec := Record{
			ID:          uuid.NewString(),
			Content:     text,
			Type:        contentType,
			Topic:       attemptTopic,
			Hash:        Fingerprint(text),
			GeneratedAt: g.now(),
		}
		g.history.Add(rec)
		if err := g.history.Save(); err != nil {
			g.logger.WithError(err).Warn("Failed to persist post history")
		}
		return rec, nil
	}

	return Record{}, ErrNoUniqueContent
}

// truncateHard cuts text to at most max characters, marking the cut with an
// ellipsis. Idempotent: output never exceeds max.
func truncateHard(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// GenerateDailyBatch produces n varied posts plus one educational thread.
// Content types avoid the last 3 used, topics the last 2, falling back to the
// full enumeration when exhausted. Items that fail to generate are skipped.
func (g *Generator) GenerateDailyBatch(ctx context.Context, n int) []Record {
	batch := make([]Record, 0, n+3)

	for i := 0; i < n; i++ {
		contentType := g.pickVaried(ContentTypes, &g.recentTypes, 3)
		topic := g.pickVaried(Topics, &g.recentTopics, 2)

		rec, err := g.Generate(ctx, contentType, topic)
		if err != nil {
			g.logger.WithError(err).WithFields(logrus.Fields{
				"content_type": contentType,
				"topic":        topic,
			}).Warn("Skipping batch item")
		} else {
			batch = append(batch, rec)
		}

		g.pause(batchPause)
	}

	thread, err := g.GenerateThread(ctx, "", 3)
	if err != nil {
		g.logger.WithError(err).Warn("Skipping thread for this batch")
	} else {
		batch = append(batch, thread...)
	}

	return batch
}

// pickVaried draws randomly from all, avoiding the last `window` entries of
// recent. When nothing is left the memory resets to the full enumeration.
func (g *Generator) pickVaried(all []string, recent *[]string, window int) string {
	avoid := *recent
	if len(avoid) > window {
		avoid = avoid[len(avoid)-window:]
	}
	avoidSet := make(map[string]struct{}, len(avoid))
	for _, v := range avoid {
		avoidSet[v] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, v := range all {
		if _, ok := avoidSet[v]; !ok {
			available = append(available, v)
		}
	}
	if len(available) == 0 {
		available = all
		*recent = nil
	}

	choice := available[g.rng.Intn(len(available))]
	*recent = append(*recent, choice)
	return choice
}

// GenerateThread produces a connected n-part thread about a topic. Parts come
// back as "i/n: text" lines; anything unparseable is dropped. Thread parts
// skip the duplicate filter since they are inherently tied to one completion.
func (g *Generator) GenerateThread(ctx context.Context, topic string, parts int) ([]Record, error) {
	if topic == "" {
		topic = Topics[g.rng.Intn(len(Topics))]
	}
	if parts <= 0 {
		parts = 3
	}

	prompt := fmt.Sprintf("Create a %d-part educational thread about %s. Each part should be under 200 characters and build on the previous. Make it unique and not generic. Include specific examples or numbers. Format each part on its own line as 'i/%d: [post]'. Make each part valuable on its own but better together.",
		parts, topic, parts)

	text, err := g.completer.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a PhD-level AI/ML expert creating educational threads. Be specific and unique."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.9,
		MaxTokens:   400,
	})
	if err != nil {
		return nil, fmt.Errorf("generate thread: %w", err)
	}

	var thread []Record
	for _, line := range strings.Split(text, "\n") {
		marker := fmt.Sprintf("%d/%d", len(thread)+1, parts)
		if !strings.Contains(line, marker) || !strings.Contains(line, ":") {
			continue
		}
		_, body, _ := strings.Cut(line, ":")
		body = truncateHard(strings.TrimSpace(body), maxPostLen)
		if body == "" {
			continue
		}
		thread = append(thread, Record{
			ID:             uuid.NewString(),
			Content:        body,
			Type:           "thread",
			Topic:          topic,
			Hash:           Fingerprint(body),
			ThreadPosition: marker,
			GeneratedAt:    g.now(),
		})
	}
	return thread, nil
}
