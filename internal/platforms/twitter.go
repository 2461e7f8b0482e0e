package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

const twitterMaxLen = 280

type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string

	// APIURL overrides the API base, primarily for tests.
	APIURL string
}

// Twitter posts via the v2 tweets endpoint using OAuth 1.0a user context.
type Twitter struct {
	api    apiClient
	apiURL string
	logger *logrus.Logger
}

func NewTwitter(cfg TwitterConfig, logger *logrus.Logger) *Twitter {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.twitter.com"
	}

	oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	httpClient := oauthCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = 15 * time.Second

	return &Twitter{
		api:    newAPIClient(httpClient),
		apiURL: apiURL,
		logger: logger,
	}
}

func (t *Twitter) Name() string { return "twitter" }

// Tweet is one entry from the recent-tweet listing.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// me resolves the authenticated user's id.
func (t *Twitter) me(ctx context.Context) (string, error) {
	resp, err := t.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, t.apiURL+"/2/users/me", nil)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("twitter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode user response: %w", err)
	}
	if decoded.Data.ID == "" {
		return "", fmt.Errorf("twitter response missing user id")
	}
	return decoded.Data.ID, nil
}

// RecentTweets lists the authenticated user's latest tweets, newest first.
func (t *Twitter) RecentTweets(ctx context.Context, count int) ([]Tweet, error) {
	// The timeline endpoint accepts 5..100.
	if count < 5 {
		count = 5
	}
	if count > 100 {
		count = 100
	}

	userID, err := t.me(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := t.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		url := fmt.Sprintf("%s/2/users/%s/tweets?max_results=%d", t.apiURL, userID, count)
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("twitter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Data []Tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode timeline response: %w", err)
	}
	return decoded.Data, nil
}

// DeleteTweet removes a tweet by id.
func (t *Twitter) DeleteTweet(ctx context.Context, id string) error {
	resp, err := t.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, t.apiURL+"/2/tweets/"+id, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twitter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if !decoded.Data.Deleted {
		return fmt.Errorf("twitter did not confirm deletion of %s", id)
	}

	t.logger.WithFields(logrus.Fields{"platform": "twitter", "tweet_id": id}).
		Debug("Tweet deleted")
	return nil
}

func (t *Twitter) Publish(ctx context.Context, rec content.Record) Result {
	text := TruncateLogical(ComposeText(rec.Title, rec.Content, rec.URL), twitterMaxLen)

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return failure(err)
	}

	resp, err := t.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/2/tweets", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return failuref("twitter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode tweet response: %w", err))
	}
	if decoded.Data.ID == "" {
		return failuref("twitter response missing tweet id")
	}

	t.logger.WithFields(logrus.Fields{"platform": "twitter", "tweet_id": decoded.Data.ID}).
		Debug("Tweet published")
	return Result{Success: true, ID: decoded.Data.ID}
}
