package llm

import "encoding/json"

// charsPerToken approximates English text; good enough for context budgeting.
const charsPerToken = 4

const (
	messageOverhead  = 4  // role tokens, delimiters
	toolCallOverhead = 4  // per tool call in an assistant message
	toolDefOverhead  = 10 // per tool definition
)

// EstimateTokens returns a rough token count for a string, rounded up.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// EstimateMessageTokens counts content, tool calls and framing of one message.
func EstimateMessageTokens(m Message) int {
	tokens := messageOverhead + EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name)
		if params, err := json.Marshal(tc.Params); err == nil {
			tokens += EstimateTokens(string(params))
		}
		tokens += toolCallOverhead
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens counts tool definitions, which are sent with every request.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name) + EstimateTokens(t.Description)
		if schema, err := json.Marshal(t.Parameters); err == nil {
			total += EstimateTokens(string(schema))
		}
		total += toolDefOverhead
	}
	return total
}
