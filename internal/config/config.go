package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"

	"github.com/ripperlabs/griller/internal/llm"
	"github.com/ripperlabs/griller/internal/personality"
)

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

// Config holds all runtime configuration for griller. Secrets are read
// once at startup and stay immutable for the process lifetime.
type Config struct {
	Username    string
	Personality string
	Intensity   int
	GitHubToken string
	Provider    llm.ProviderName
	Model       string
	APIKey      string
	Addr        string
	Verbose     bool
}

// Validate checks a CLI invocation: a username is required.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("github username is required")
	}
	if !validUsername.MatchString(c.Username) {
		return fmt.Errorf("invalid github username %q", c.Username)
	}
	return c.validateProvider()
}

// ValidateServer checks a server invocation, where usernames arrive per
// request instead of at startup.
func (c *Config) ValidateServer() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	return c.validateProvider()
}

func (c *Config) validateProvider() error {
	switch c.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be gemini, openai, or anthropic", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s requires an API key (set %s)", c.Provider, envKeyForProvider(c.Provider))
	}
	return nil
}

// LoadFromEnv populates environment-dependent fields (tokens, keys). A
// .env file in the working directory is honored when present. The GitHub
// token is optional; without it, requests run at the lower anonymous rate
// budget.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()
	c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	c.APIKey = os.Getenv(envKeyForProvider(c.Provider))
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderGemini:
		return "gemini-2.0-flash"
	case llm.ProviderOpenAI:
		return "gpt-4o"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	default:
		return ""
	}
}

// DefaultPersonality and DefaultIntensity mirror the prompt-table
// defaults so flag help and fallback behavior agree.
const DefaultPersonality = personality.DefaultKey

const DefaultIntensity = personality.DefaultIntensity

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
