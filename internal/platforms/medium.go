package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

type MediumConfig struct {
	AccessToken string
	UserID      string

	// APIURL overrides the API base, primarily for tests.
	APIURL string
}

// Medium publishes records as public stories under the configured user.
type Medium struct {
	api         apiClient
	accessToken string
	userID      string
	apiURL      string
	expander    *Expander
	logger      *logrus.Logger
}

var mediumTags = []string{"artificial-intelligence", "machine-learning", "technology"}

const mediumFooter = "<hr><p><em>Follow me for more AI/ML insights and tutorials.</em></p>"

func NewMedium(cfg MediumConfig, expander *Expander, logger *logrus.Logger) *Medium {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.medium.com/v1"
	}
	return &Medium{
		api:         newAPIClient(nil),
		accessToken: cfg.AccessToken,
		userID:      cfg.UserID,
		apiURL:      apiURL,
		expander:    expander,
		logger:      logger,
	}
}

func (m *Medium) Name() string { return "medium" }

func (m *Medium) Publish(ctx context.Context, rec content.Record) Result {
	expanded := m.expander.Expand(ctx, rec.Content)

	title := rec.Title
	if title == "" {
		title = deriveTitle(expanded, 60)
	}

	article := map[string]interface{}{
		"title":         title,
		"contentFormat": "html",
		"content":       "<p>" + expanded + "</p>" + mediumFooter,
		"tags":          mediumTags,
		"publishStatus": "public",
	}
	payload, err := json.Marshal(article)
	if err != nil {
		return failure(err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/posts", m.apiURL, m.userID)
	resp, err := m.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.accessToken)
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return failuref("medium returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Data struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode story response: %w", err))
	}

	m.logger.WithFields(logrus.Fields{"platform": "medium", "story_id": decoded.Data.ID}).
		Debug("Story published")
	return Result{Success: true, ID: decoded.Data.ID, URL: decoded.Data.URL}
}
