package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultClockAPIBase = "http://127.0.0.1:5173"

type Config struct {
	ClockAPIBase     string // vault CRUD service, e.g. http://127.0.0.1:5173
	LLMProvider      string // openai, anthropic, ollama
	OpenAIKey        string
	AnthropicKey     string // API key (X-Api-Key header)
	AnthropicToken   string // OAuth token (Authorization: Bearer header)
	LLMModel         string
	OllamaBaseURL    string
	MaxContextTokens int
	DiscordToken     string
	DiscordWebhook   string
	DiscordDMUserID  string
	DatabasePath     string
	PlanCron         string
	RetroCron        string
	LogLevel         string
	LogFile          string
}

func Load() *Config {
	// .env values win over the inherited environment.
	_ = godotenv.Overload() // ignore error if no .env

	return &Config{
		ClockAPIBase:     envOr("TWENTYFOUR_CLOCK_API_BASE", DefaultClockAPIBase),
		LLMProvider:      envOr("LLM_PROVIDER", "openai"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:   os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		LLMModel:         os.Getenv("LLM_MODEL"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		MaxContextTokens: envInt("MAX_CONTEXT_TOKENS", 32000),
		DiscordToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook:   os.Getenv("DISCORD_WEBHOOK_URL"),
		DiscordDMUserID:  os.Getenv("DISCORD_DM_USER_ID"),
		DatabasePath:     envOr("DATABASE_PATH", "./twentyfour.db"),
		PlanCron:         envOr("PLAN_CRON", "0 8 * * *"),
		RetroCron:        envOr("RETRO_CRON", "0 21 * * *"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
	}
}

// APIKey returns the credential matching the selected provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
