package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

const linkedinMaxLen = 1300

type LinkedInConfig struct {
	AccessToken string
	UserID      string

	// APIURL overrides the API base, primarily for tests.
	APIURL string
}

// LinkedIn publishes UGC posts on behalf of a member. Content is expanded to
// long form before posting.
type LinkedIn struct {
	api         apiClient
	accessToken string
	userID      string
	apiURL      string
	expander    *Expander
	logger      *logrus.Logger
}

func NewLinkedIn(cfg LinkedInConfig, expander *Expander, logger *logrus.Logger) *LinkedIn {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.linkedin.com"
	}
	return &LinkedIn{
		api:         newAPIClient(nil),
		accessToken: cfg.AccessToken,
		userID:      cfg.UserID,
		apiURL:      apiURL,
		expander:    expander,
		logger:      logger,
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

type linkedinShareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string `json:"shareMediaCategory"`
}

type linkedinPost struct {
	Author          string                          `json:"author"`
	LifecycleState  string                          `json:"lifecycleState"`
	SpecificContent map[string]linkedinShareContent `json:"specificContent"`
	Visibility      map[string]string               `json:"visibility"`
}

func (l *LinkedIn) Publish(ctx context.Context, rec content.Record) Result {
	expanded := l.expander.Expand(ctx, rec.Content)
	text := StripQuotes(TruncateLogical(expanded, linkedinMaxLen))

	var share linkedinShareContent
	share.ShareCommentary.Text = text
	share.ShareMediaCategory = "NONE"

	post := linkedinPost{
		Author:         "urn:li:person:" + l.userID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]linkedinShareContent{
			"com.linkedin.ugc.ShareContent": share,
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	payload, err := json.Marshal(post)
	if err != nil {
		return failure(err)
	}

	resp, err := l.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiURL+"/v2/ugcPosts", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+l.accessToken)
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return failuref("linkedin returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	id := resp.Header.Get("X-Restli-Id")
	if id == "" {
		return failuref("linkedin response missing post id header")
	}

	l.logger.WithFields(logrus.Fields{"platform": "linkedin", "post_id": id}).
		Debug("UGC post published")
	return Result{Success: true, ID: id}
}
