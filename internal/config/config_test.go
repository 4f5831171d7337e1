package config

import (
	"testing"

	"github.com/ripperlabs/griller/internal/llm"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid gemini config",
			cfg: Config{
				Username: "testuser",
				Provider: llm.ProviderGemini,
				APIKey:   "ai-fake",
			},
		},
		{
			name: "valid openai config",
			cfg: Config{
				Username: "testuser",
				Provider: llm.ProviderOpenAI,
				APIKey:   "sk-fake",
			},
		},
		{
			name: "valid anthropic config",
			cfg: Config{
				Username: "testuser",
				Provider: llm.ProviderAnthropic,
				APIKey:   "sk-ant-fake",
			},
		},
		{
			name: "github token is optional",
			cfg: Config{
				Username: "testuser",
				Provider: llm.ProviderGemini,
				APIKey:   "ai-fake",
			},
		},
		{
			name: "missing username",
			cfg: Config{
				Provider: llm.ProviderGemini,
				APIKey:   "ai-fake",
			},
			wantErr: true,
		},
		{
			name: "invalid username",
			cfg: Config{
				Username: "-leading-dash",
				Provider: llm.ProviderGemini,
				APIKey:   "ai-fake",
			},
			wantErr: true,
		},
		{
			name: "invalid provider",
			cfg: Config{
				Username: "testuser",
				Provider: "ollama",
				APIKey:   "whatever",
			},
			wantErr: true,
		},
		{
			name: "missing api key",
			cfg: Config{
				Username: "testuser",
				Provider: llm.ProviderOpenAI,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := Config{Provider: llm.ProviderGemini, APIKey: "ai-fake", Addr: ":8080"}
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("ValidateServer() error = %v, want nil (no username needed)", err)
	}

	cfg.Addr = ""
	if err := cfg.ValidateServer(); err == nil {
		t.Error("ValidateServer() should require a listen address")
	}
}

func TestDefaultModel(t *testing.T) {
	tests := []struct {
		provider llm.ProviderName
		want     string
	}{
		{llm.ProviderGemini, "gemini-2.0-flash"},
		{llm.ProviderOpenAI, "gpt-4o"},
		{llm.ProviderAnthropic, "claude-sonnet-4-5"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			got := DefaultModel(tt.provider)
			if got != tt.want {
				t.Errorf("DefaultModel(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}
