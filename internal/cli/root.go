package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chris/twentyfour/config"
	"github.com/chris/twentyfour/internal/agent"
	"github.com/chris/twentyfour/internal/db"
	"github.com/chris/twentyfour/internal/llm"
	"github.com/chris/twentyfour/internal/vault"
)

// Context is shared by every command. Dependencies are opened on first use so
// that commands like `today` work without a database or LLM credentials.
type Context struct {
	Config *config.Config
	Stdout io.Writer
	Stdin  io.Reader
	Now    func() time.Time

	db      *db.DB
	service *vault.Service
	agent   *agent.Agent
}

func NewContext(cfg *config.Config) *Context {
	return &Context{Config: cfg, Stdout: os.Stdout, Stdin: os.Stdin, Now: time.Now}
}

func (c *Context) DB() (*db.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	d, err := db.Open(c.Config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", c.Config.DatabasePath, err)
	}
	c.db = d
	return d, nil
}

// Vault returns the CRUD service, journaling every call to the local database.
func (c *Context) Vault() (*vault.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	d, err := c.DB()
	if err != nil {
		return nil, err
	}
	gw := vault.NewGateway(c.Config.ClockAPIBase, vault.WithRecorder(d))
	c.service = vault.NewService(gw, c.Now)
	return c.service, nil
}

func (c *Context) Agent() (*agent.Agent, error) {
	if c.agent != nil {
		return c.agent, nil
	}
	svc, err := c.Vault()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  c.Config.LLMProvider,
		APIKey:    c.Config.APIKey(),
		AuthToken: c.Config.AnthropicToken,
		Model:     c.Config.LLMModel,
		BaseURL:   c.Config.OllamaBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	cfg := agent.DefaultConfig()
	cfg.MaxContextTokens = c.Config.MaxContextTokens
	c.agent = agent.New(cfg, client, svc)
	return c.agent, nil
}

func (c *Context) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Context) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(c.Stdout, string(b))
	return err
}
