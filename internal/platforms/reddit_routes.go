package platforms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RedditRoutes maps content types to destination subreddits. The table is
// externally supplied configuration; the compiled-in defaults cover the
// content types this generator emits.
type RedditRoutes struct {
	// Primary maps a record's content type to its preferred subreddit.
	Primary map[string]string `yaml:"primary"`

	// Fallback is the destination for content types missing from Primary.
	Fallback string `yaml:"fallback"`

	// Alternates feed the rotation: with AlternateChance probability a post
	// goes to a random alternate instead of its primary, to avoid flooding
	// one community.
	Alternates      []string `yaml:"alternates"`
	AlternateChance float64  `yaml:"alternate_chance"`

	// LinkOnly lists subreddits that reject self posts; submissions there
	// go as links, using the record url or LinkFallbackURL.
	LinkOnly        []string `yaml:"link_only"`
	LinkFallbackURL string   `yaml:"link_fallback_url"`
}

// DefaultRedditRoutes returns the built-in routing table.
func DefaultRedditRoutes() RedditRoutes {
	return RedditRoutes{
		Primary: map[string]string{
			"hot_take":     "unpopularopinion",
			"prediction":   "unpopularopinion",
			"code_snippet": "test",
			"challenge":    "test",
		},
		Fallback:        "test",
		Alternates:      nil,
		AlternateChance: 0.3,
		LinkOnly:        []string{"todayilearned", "technology", "science"},
		LinkFallbackURL: "https://github.com/cruizviquez/multi-platform-blog-poster",
	}
}

// LoadRedditRoutes reads a routing table from a YAML file, filling gaps with
// the defaults. A missing path returns the defaults.
func LoadRedditRoutes(path string) (RedditRoutes, error) {
	routes := DefaultRedditRoutes()
	if path == "" {
		return routes, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return routes, nil
		}
		return routes, fmt.Errorf("read reddit routes: %w", err)
	}

	var loaded RedditRoutes
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return routes, fmt.Errorf("parse reddit routes: %w", err)
	}

	if len(loaded.Primary) > 0 {
		routes.Primary = loaded.Primary
	}
	if loaded.Fallback != "" {
		routes.Fallback = loaded.Fallback
	}
	if len(loaded.Alternates) > 0 {
		routes.Alternates = loaded.Alternates
	}
	if loaded.AlternateChance > 0 {
		routes.AlternateChance = loaded.AlternateChance
	}
	if len(loaded.LinkOnly) > 0 {
		routes.LinkOnly = loaded.LinkOnly
	}
	if loaded.LinkFallbackURL != "" {
		routes.LinkFallbackURL = loaded.LinkFallbackURL
	}
	return routes, nil
}

func (r RedditRoutes) primaryFor(contentType string) string {
	if sub, ok := r.Primary[contentType]; ok {
		return sub
	}
	return r.Fallback
}

func (r RedditRoutes) isLinkOnly(subreddit string) bool {
	for _, sub := range r.LinkOnly {
		if sub == subreddit {
			return true
		}
	}
	return false
}
