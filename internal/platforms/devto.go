package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

type DevToConfig struct {
	APIKey string

	// APIURL overrides the API base, primarily for tests.
	APIURL string
}

// DevTo publishes records as articles. Short insights are expanded to long
// form first and wrapped with a fixed footer and tag set.
type DevTo struct {
	api      apiClient
	apiKey   string
	apiURL   string
	expander *Expander
	logger   *logrus.Logger
}

var devtoTags = []string{"ai", "machinelearning", "technology", "programming"}

const devtoFooter = "\n\n---\n\n*This post was originally shared as an AI/ML insight. Follow me for more expert content on artificial intelligence and machine learning.*\n"

func NewDevTo(cfg DevToConfig, expander *Expander, logger *logrus.Logger) *DevTo {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://dev.to/api"
	}
	return &DevTo{
		api:      newAPIClient(nil),
		apiKey:   cfg.APIKey,
		apiURL:   apiURL,
		expander: expander,
		logger:   logger,
	}
}

func (d *DevTo) Name() string { return "devto" }

// deriveTitle builds an article title from body text: the first sentence if
// one fits, otherwise the leading characters, stripped of trailing
// punctuation.
func deriveTitle(body string, max int) string {
	runes := []rune(body)
	if len(runes) > max {
		runes = runes[:max]
	}
	title := strings.TrimSpace(string(runes))
	if idx := strings.Index(title, "."); idx > 0 {
		title = title[:idx]
	}
	return strings.Trim(title, ".,!? ")
}

func (d *DevTo) Publish(ctx context.Context, rec content.Record) Result {
	expanded := d.expander.Expand(ctx, rec.Content)

	title := rec.Title
	if title == "" {
		title = deriveTitle(expanded, 60)
	}

	article := map[string]interface{}{
		"article": map[string]interface{}{
			"title":         title,
			"body_markdown": expanded + devtoFooter,
			"tags":          devtoTags,
			"published":     true,
		},
	}
	payload, err := json.Marshal(article)
	if err != nil {
		return failure(err)
	}

	resp, err := d.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL+"/articles", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("api-key", d.apiKey)
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return failuref("dev.to returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode article response: %w", err))
	}

	d.logger.WithFields(logrus.Fields{"platform": "devto", "article_id": decoded.ID}).
		Debug("Article published")
	return Result{Success: true, ID: strconv.FormatInt(decoded.ID, 10), URL: decoded.URL}
}
