package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

type FacebookConfig struct {
	AccessToken string
	PageID      string

	// APIURL overrides the Graph API base, primarily for tests.
	APIURL string
}

// Facebook posts to a page feed via the Graph API. The record url, when
// present, rides along as a link attachment.
type Facebook struct {
	api         apiClient
	accessToken string
	pageID      string
	apiURL      string
	logger      *logrus.Logger
}

func NewFacebook(cfg FacebookConfig, logger *logrus.Logger) *Facebook {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://graph.facebook.com/v18.0"
	}
	return &Facebook{
		api:         newAPIClient(nil),
		accessToken: cfg.AccessToken,
		pageID:      cfg.PageID,
		apiURL:      apiURL,
		logger:      logger,
	}
}

func (f *Facebook) Name() string { return "facebook" }

func (f *Facebook) Publish(ctx context.Context, rec content.Record) Result {
	var message string
	switch {
	case rec.Title != "" && rec.URL != "":
		message = rec.Title + "\n\n" + rec.Content + "\n\n" + rec.URL
	case rec.Content != "":
		message = StripQuotes(rec.Content)
	default:
		message = rec.Title
	}

	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", f.accessToken)
	if rec.URL != "" {
		form.Set("link", rec.URL)
	}

	endpoint := fmt.Sprintf("%s/%s/feed", f.apiURL, f.pageID)
	resp, err := f.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return failuref("facebook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode feed response: %w", err))
	}

	f.logger.WithFields(logrus.Fields{"platform": "facebook", "post_id": decoded.ID}).
		Debug("Page post published")
	return Result{Success: true, ID: decoded.ID}
}
