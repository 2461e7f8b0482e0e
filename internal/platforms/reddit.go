package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
)

const redditTitleMaxLen = 300

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string

	// AuthURL and APIURL override the endpoints, primarily for tests.
	AuthURL string
	APIURL  string
}

// Reddit submits posts through the OAuth2 script-app flow. The destination
// subreddit comes from the routing table keyed by content type; subreddits
// that reject self posts get a link submission instead. Destination-specific
// rejections surface as failures without retry.
type Reddit struct {
	api       apiClient
	cfg       RedditConfig
	authURL   string
	apiURL    string
	routes    RedditRoutes
	expander  *Expander
	rng       *rand.Rand
	logger    *logrus.Logger
}

func NewReddit(cfg RedditConfig, routes RedditRoutes, expander *Expander, logger *logrus.Logger) *Reddit {
	authURL := strings.TrimRight(cfg.AuthURL, "/")
	if authURL == "" {
		authURL = "https://www.reddit.com"
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://oauth.reddit.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "BlogPoster/1.0"
	}
	return &Reddit{
		api:      newAPIClient(nil),
		cfg:      cfg,
		authURL:  authURL,
		apiURL:   apiURL,
		routes:   routes,
		expander: expander,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
}

// WithRand replaces the rotation random source, for tests.
func (r *Reddit) WithRand(rng *rand.Rand) *Reddit {
	r.rng = rng
	return r
}

func (r *Reddit) Name() string { return "reddit" }

// pickSubreddit applies the rotation: primary by content type, with a
// configured chance of a random alternate.
func (r *Reddit) pickSubreddit(contentType string) string {
	if len(r.routes.Alternates) > 0 && r.rng.Float64() < r.routes.AlternateChance {
		return r.routes.Alternates[r.rng.Intn(len(r.routes.Alternates))]
	}
	return r.routes.primaryFor(contentType)
}

func (r *Reddit) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", r.cfg.Username)
	form.Set("password", r.cfg.Password)

	resp, err := r.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.authURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(r.cfg.ClientID, r.cfg.ClientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", r.cfg.UserAgent)
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("reddit auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("reddit auth returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reddit auth response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("reddit auth response missing access token")
	}
	return decoded.AccessToken, nil
}

func (r *Reddit) Publish(ctx context.Context, rec content.Record) Result {
	subreddit := r.pickSubreddit(rec.Type)

	token, err := r.authenticate(ctx)
	if err != nil {
		return failure(err)
	}

	title := rec.Title
	if title == "" {
		title = deriveTitle(rec.Content, 100)
	}
	if subreddit == "unpopularopinion" && !looksLikeOpinion(title) {
		title += " is overrated"
	}
	if runes := []rune(title); len(runes) > redditTitleMaxLen {
		title = string(runes[:redditTitleMaxLen])
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("sr", subreddit)
	form.Set("title", title)
	if r.routes.isLinkOnly(subreddit) {
		link := rec.URL
		if link == "" {
			link = r.routes.LinkFallbackURL
		}
		form.Set("kind", "link")
		form.Set("url", link)
	} else {
		form.Set("kind", "self")
		form.Set("text", r.expander.Expand(ctx, rec.Content))
	}

	resp, err := r.api.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/api/submit", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("User-Agent", r.cfg.UserAgent)
		return req, nil
	})
	if err != nil {
		return failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return failuref("reddit returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		JSON struct {
			Errors [][]interface{} `json:"errors"`
			Data   struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Errorf("decode submit response: %w", err))
	}

	if len(decoded.JSON.Errors) > 0 {
		// Subreddit-specific rejections (NO_SELFS, BODY_NOT_ALLOWED, ...)
		// surface as-is; the next cycle may route elsewhere.
		msgs := make([]string, 0, len(decoded.JSON.Errors))
		for _, e := range decoded.JSON.Errors {
			parts := make([]string, 0, len(e))
			for _, p := range e {
				parts = append(parts, fmt.Sprint(p))
			}
			msgs = append(msgs, strings.Join(parts, " "))
		}
		return Result{Subreddit: subreddit, Error: strings.Join(msgs, "; ")}
	}

	r.logger.WithFields(logrus.Fields{
		"platform":  "reddit",
		"subreddit": subreddit,
		"post_id":   decoded.JSON.Data.ID,
	}).Debug("Submission published")
	return Result{Success: true, ID: decoded.JSON.Data.ID, URL: decoded.JSON.Data.URL, Subreddit: subreddit}
}

func looksLikeOpinion(title string) bool {
	lower := strings.ToLower(title)
	for _, word := range []string{"should", "better", "worse", "think"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
