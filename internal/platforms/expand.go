package platforms

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/pkg/llm"
)

const expandedMaxLen = 1000

// Expander turns a short insight into a longer elaboration for the long-form
// platforms. Expansion is best-effort: any failure falls back to the original
// text with a warning, never aborting the post.
type Expander struct {
	completer llm.Completer
	logger    *logrus.Logger
}

func NewExpander(completer llm.Completer, logger *logrus.Logger) *Expander {
	return &Expander{completer: completer, logger: logger}
}

func (e *Expander) Expand(ctx context.Context, text string) string {
	if e == nil || e.completer == nil {
		return text
	}

	expanded, err := e.completer.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are an AI/ML expert. Expand the following short insight into a detailed, engaging post (800-1000 characters). Keep the same tone and add valuable details, examples, or explanations."},
			{Role: "user", Content: "Expand this into 800-1000 characters:\n\n" + text},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		e.logger.WithError(err).Warn("Content expansion failed, using original")
		return text
	}

	expanded = strings.TrimSpace(expanded)
	if expanded == "" {
		return text
	}
	if runes := []rune(expanded); len(runes) > expandedMaxLen {
		expanded = string(runes[:expandedMaxLen-3]) + "..."
	}
	return expanded
}
