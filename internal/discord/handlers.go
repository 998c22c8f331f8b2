package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/chris/twentyfour/internal/agent"
	"github.com/chris/twentyfour/internal/llm"
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	isMentioned := false
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}

	_ = s.ChannelTyping(m.ChannelID)

	b.mu.Lock()
	history := b.histories[m.ChannelID]
	b.mu.Unlock()

	ctx := agent.WithUser(context.Background(), userFromAuthor(m.Author))
	reply, newHistory, err := b.agent.Run(ctx, history, content)
	if err != nil {
		log.Error("discord: agent error", "channel", m.ChannelID, "err", err)
		_, _ = s.ChannelMessageSend(m.ChannelID, "Something went wrong. Try again?")
		return
	}

	// Stored history is capped by the same budget the agent trims to.
	newHistory = llm.TrimMessages(newHistory, b.agent.MaxContextTokens())

	b.mu.Lock()
	b.histories[m.ChannelID] = newHistory
	b.mu.Unlock()

	for _, chunk := range splitMessage(reply, maxMessageLen) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			log.Error("discord: sending reply", "channel", m.ChannelID, "err", err)
			return
		}
	}
}

func userFromAuthor(u *discordgo.User) *agent.User {
	return &agent.User{
		DisplayName: u.GlobalName,
		Name:        u.Username,
		Email:       u.Email,
		Provider:    "discord",
	}
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

// splitMessage chunks s to maxLen, preferring to break after a newline.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := min(maxLen, len(s))
		if end < len(s) {
			if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
				end = idx + 1
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
