package llm

import "fmt"

const DefaultOpenAIModel = "gpt-5-nano"

type ProviderConfig struct {
	Provider  string
	APIKey    string
	AuthToken string // Anthropic OAuth token (Bearer auth)
	Model     string
	BaseURL   string // ollama only
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
