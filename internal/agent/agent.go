package agent

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/chris/twentyfour/internal/llm"
	"github.com/chris/twentyfour/internal/vault"
)

const (
	defaultMaxToolRounds    = 10
	defaultMaxContextTokens = 32000
	minMessageBudget        = 1000
)

// Config is everything that shapes the agent's behaviour besides its collaborators.
type Config struct {
	Instructions     string
	Tools            []llm.Tool
	MaxToolRounds    int
	MaxContextTokens int
}

// DefaultConfig returns the planner instructions and tool set.
func DefaultConfig() Config {
	return Config{
		Instructions:     llm.Instructions,
		Tools:            llm.AgentTools,
		MaxToolRounds:    defaultMaxToolRounds,
		MaxContextTokens: defaultMaxContextTokens,
	}
}

type Agent struct {
	cfg    Config
	client llm.Client
	vault  *vault.Service
}

func New(cfg Config, client llm.Client, svc *vault.Service) *Agent {
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = defaultMaxToolRounds
	}
	if cfg.MaxContextTokens <= 0 {
		cfg.MaxContextTokens = defaultMaxContextTokens
	}
	return &Agent{cfg: cfg, client: client, vault: svc}
}

func (a *Agent) MaxContextTokens() int { return a.cfg.MaxContextTokens }

// Run takes a user message, runs the tool-calling loop, and returns the final text response.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history), len(history)+1)
	copy(messages, history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	// Instructions and tool schemas are sent on every round.
	fixedTokens := llm.EstimateTokens(a.cfg.Instructions) + llm.EstimateToolsTokens(a.cfg.Tools)
	messageBudget := max(a.cfg.MaxContextTokens-fixedTokens, minMessageBudget)

	for round := 0; round < a.cfg.MaxToolRounds; round++ {
		trimmed := llm.TrimMessages(messages, messageBudget)
		if len(trimmed) < len(messages) {
			log.Info("context trimmed", "from", len(messages), "to", len(trimmed))
		}
		resp, err := a.client.Chat(ctx, a.cfg.Instructions, trimmed, a.cfg.Tools)
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			return resp.Content, messages, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Tool calls of one round run in order.
		for _, tc := range resp.ToolCalls {
			result, isError := a.executeTool(ctx, tc.Name, tc.Params)
			log.Info("tool", "name", tc.Name, "round", round, "error", isError, "result", truncate(result, 200))
			messages = append(messages, llm.Message{
				Role:       llm.RoleUser,
				Content:    result,
				ToolCallID: tc.ID,
				IsError:    isError,
			})
		}
	}

	return "I hit the maximum number of tool calls. Here's what I have so far.", messages, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
