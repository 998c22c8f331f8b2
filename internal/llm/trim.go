package llm

// TrimMessages drops the oldest conversation turns until the history fits maxTokens.
//
// The budget covers messages only; the caller subtracts instructions and tool
// schemas first. An assistant tool-call message and its results are one turn
// and are dropped together. The newest turn is always kept, even when it alone
// exceeds the budget.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	turns := groupMessages(messages)

	total := 0
	for _, g := range turns {
		total += g.tokens
	}
	if total <= maxTokens {
		return messages
	}

	drop := 0
	for drop < len(turns)-1 && total > maxTokens {
		total -= turns[drop].tokens
		drop++
	}

	var trimmed []Message
	for _, g := range turns[drop:] {
		trimmed = append(trimmed, g.messages...)
	}
	return trimmed
}

// messageGroup is kept or dropped as a whole.
type messageGroup struct {
	messages []Message
	tokens   int
}

// groupMessages splits history into turns: an assistant message with tool
// calls absorbs the tool results that follow it; every other message stands alone.
func groupMessages(messages []Message) []messageGroup {
	var groups []messageGroup
	for i := 0; i < len(messages); {
		g := messageGroup{messages: []Message{messages[i]}, tokens: EstimateMessageTokens(messages[i])}
		toolTurn := messages[i].Role == RoleAssistant && len(messages[i].ToolCalls) > 0
		i++
		for toolTurn && i < len(messages) && messages[i].ToolCallID != "" {
			g.messages = append(g.messages, messages[i])
			g.tokens += EstimateMessageTokens(messages[i])
			i++
		}
		groups = append(groups, g)
	}
	return groups
}
