// Package config assembles the application configuration from the process
// environment. Platform credential blocks are optional: a nil pointer means
// the platform is not configured and no adapter is built for it.
package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/config"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/llm"
)

type Config struct {
	QueueFile        string
	HistoryFile      string
	PostLogFile      string
	RedditRoutesFile string

	Interval    time.Duration
	PostsPerDay int

	LLM llm.Config

	Twitter  *platforms.TwitterConfig
	Mastodon *platforms.MastodonConfig
	LinkedIn *platforms.LinkedInConfig
	Facebook *platforms.FacebookConfig
	DevTo    *platforms.DevToConfig
	Medium   *platforms.MediumConfig
	Reddit   *platforms.RedditConfig
}

// Load reads the full configuration. A platform block is populated only when
// its lead credential is present; partially filled blocks surface later as
// that platform's API rejecting the calls, not as a startup failure.
func Load() Config {
	cfg := Config{
		QueueFile:        config.GetEnv("QUEUE_FILE", "post_queue.json"),
		HistoryFile:      config.GetEnv("HISTORY_FILE", "posted_content.json"),
		PostLogFile:      config.GetEnv("POST_LOG_FILE", "posting_log.jsonl"),
		RedditRoutesFile: config.GetEnv("REDDIT_ROUTES_FILE", ""),
		Interval:         config.GetEnvDuration("POST_INTERVAL", 30*time.Minute),
		PostsPerDay:      config.GetEnvInt("POSTS_PER_DAY", 6),
		LLM:              llm.LoadConfig(),
	}

	if key := config.GetEnv("TWITTER_API_KEY", ""); key != "" {
		cfg.Twitter = &platforms.TwitterConfig{
			APIKey:       key,
			APISecret:    config.GetEnv("TWITTER_API_SECRET", ""),
			AccessToken:  config.GetEnv("TWITTER_ACCESS_TOKEN", ""),
			AccessSecret: config.GetEnv("TWITTER_ACCESS_SECRET", ""),
		}
	}
	if token := config.GetEnv("MASTODON_ACCESS_TOKEN", ""); token != "" {
		cfg.Mastodon = &platforms.MastodonConfig{
			AccessToken: token,
			InstanceURL: config.GetEnv("MASTODON_INSTANCE_URL", "https://mastodon.social"),
		}
	}
	if token := config.GetEnv("LINKEDIN_ACCESS_TOKEN", ""); token != "" {
		cfg.LinkedIn = &platforms.LinkedInConfig{
			AccessToken: token,
			UserID:      config.GetEnv("LINKEDIN_USER_ID", ""),
		}
	}
	if token := config.GetEnv("FACEBOOK_ACCESS_TOKEN", ""); token != "" {
		cfg.Facebook = &platforms.FacebookConfig{
			AccessToken: token,
			PageID:      config.GetEnv("FACEBOOK_PAGE_ID", ""),
		}
	}
	if key := config.GetEnv("DEVTO_API_KEY", ""); key != "" {
		cfg.DevTo = &platforms.DevToConfig{APIKey: key}
	}
	if token := config.GetEnv("MEDIUM_ACCESS_TOKEN", ""); token != "" {
		cfg.Medium = &platforms.MediumConfig{
			AccessToken: token,
			UserID:      config.GetEnv("MEDIUM_USER_ID", ""),
		}
	}
	if id := config.GetEnv("REDDIT_CLIENT_ID", ""); id != "" {
		cfg.Reddit = &platforms.RedditConfig{
			ClientID:     id,
			ClientSecret: config.GetEnv("REDDIT_CLIENT_SECRET", ""),
			Username:     config.GetEnv("REDDIT_USERNAME", ""),
			Password:     config.GetEnv("REDDIT_PASSWORD", ""),
			UserAgent:    config.GetEnv("REDDIT_USER_AGENT", ""),
		}
	}

	return cfg
}

// Adapters builds one adapter per configured platform, in a fixed order.
func (c Config) Adapters(expander *platforms.Expander, logger *logrus.Logger) ([]platforms.Adapter, error) {
	var adapters []platforms.Adapter

	if c.Twitter != nil {
		adapters = append(adapters, platforms.NewTwitter(*c.Twitter, logger))
	}
	if c.LinkedIn != nil {
		adapters = append(adapters, platforms.NewLinkedIn(*c.LinkedIn, expander, logger))
	}
	if c.Facebook != nil {
		adapters = append(adapters, platforms.NewFacebook(*c.Facebook, logger))
	}
	if c.Mastodon != nil {
		adapters = append(adapters, platforms.NewMastodon(*c.Mastodon, logger))
	}
	if c.Reddit != nil {
		routes, err := platforms.LoadRedditRoutes(c.RedditRoutesFile)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, platforms.NewReddit(*c.Reddit, routes, expander, logger))
	}
	if c.DevTo != nil {
		adapters = append(adapters, platforms.NewDevTo(*c.DevTo, expander, logger))
	}
	if c.Medium != nil {
		adapters = append(adapters, platforms.NewMedium(*c.Medium, expander, logger))
	}

	return adapters, nil
}

// ConfiguredPlatforms names the platforms with credentials present, in the
// same order Adapters builds them.
func (c Config) ConfiguredPlatforms() []string {
	var names []string
	if c.Twitter != nil {
		names = append(names, "twitter")
	}
	if c.LinkedIn != nil {
		names = append(names, "linkedin")
	}
	if c.Facebook != nil {
		names = append(names, "facebook")
	}
	if c.Mastodon != nil {
		names = append(names, "mastodon")
	}
	if c.Reddit != nil {
		names = append(names, "reddit")
	}
	if c.DevTo != nil {
		names = append(names, "devto")
	}
	if c.Medium != nil {
		names = append(names, "medium")
	}
	return names
}
