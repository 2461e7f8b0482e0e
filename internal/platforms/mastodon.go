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

const mastodonMaxLen = 500

type MastodonConfig struct {
	AccessToken string
	InstanceURL string
}

// Mastodon posts public statuses to a configurable instance, budgeting the
// 500-character limit around the title and url when both are present.
type Mastodon struct {
	api         apiClient
	accessToken string
	instanceURL string
	logger      *logrus.Logger
}

func NewMastodon(cfg MastodonConfig, logger *logrus.Logger) *Mastodon {
	instanceURL := strings.TrimRight(cfg.InstanceURL, "/")
	if instanceURL == "" {
		instanceURL = "https://mastodon.social"
	}
	return &Mastodon{
		api:         newAPIClient(nil),
		accessToken: cfg.AccessToken,
		instanceURL: instanceURL,
		logger:      logger,
	}
}

func (m *Mastodon) Name() string { return "mastodon" }

func (m *Mastodon) Publish(ctx context.Context, rec content.Record) Result {
	var status string
	if rec.Title != "" && rec.URL != "" {
		// Reserve space for the title, url, separators and a safety margin
		// before truncating the body. Counted in characters to match the
		// instance limit and TruncateLogical.
		reserved := len([]rune(rec.URL)) + 4 + len([]rune(rec.Title)) + 4 + 10
		body := TruncateLogical(rec.Content, mastodonMaxLen-reserved)
		status = rec.Title + "\n\n" + body + "\n\n" + rec.URL
	} else {
		status = TruncateLogical(StripQuotes(rec.Content), mastodonMaxLen)
	}

	payload, err := json.Marshal(map[string]string{
		"status":     status,
		"visibility": "public",
	})
	if err != nil {
		return failure(err)
	}

	resp, err := m.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.instanceURL+"/api/v1/statuses", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.accessToken)
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return failuref("mastodon returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode status response: %w", err))
	}

	m.logger.WithFields(logrus.Fields{"platform": "mastodon", "status_id": decoded.ID}).
		Debug("Status published")
	return Result{Success: true, ID: decoded.ID, URL: decoded.URL}
}
