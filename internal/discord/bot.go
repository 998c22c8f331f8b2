package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/chris/twentyfour/internal/agent"
	"github.com/chris/twentyfour/internal/llm"
)

// maxMessageLen is Discord's per-message character limit.
const maxMessageLen = 2000

type Bot struct {
	session *discordgo.Session
	agent   *agent.Agent

	mu        sync.Mutex
	histories map[string][]llm.Message // per channel
}

func NewBot(token string, ag *agent.Agent) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, agent: ag, histories: make(map[string][]llm.Message)}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Info("discord: connected", "user", s.State.User.Username)
	return bot, nil
}

// SendDM delivers content to a user's direct-message channel.
func (b *Bot) SendDM(userID, content string) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	for _, chunk := range splitMessage(content, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk); err != nil {
			return fmt.Errorf("sending DM: %w", err)
		}
	}
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}
