package llm

import (
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/config"
)

type Config struct {
	APIKey string
	APIURL string
	Model  string
}

// LoadConfig reads the completion-service settings from the environment.
// A missing API key is not a load error; commands that actually complete
// text check for it, so queue inspection works without credentials.
func LoadConfig() Config {
	return Config{
		APIKey: config.GetEnv("GROQ_API_KEY", ""),
		APIURL: config.GetEnv("GROQ_API_URL", ""),
		Model:  config.GetEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
	}
}
