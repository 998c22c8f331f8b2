package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/chris/twentyfour/internal/agent"
	"github.com/chris/twentyfour/internal/llm"
)

const prompt = "twentyfour> "

type ChatCmd struct{}

func (c *ChatCmd) Run(app *Context) error {
	ag, err := app.Agent()
	if err != nil {
		return err
	}
	ctx := agent.WithUser(context.Background(), localUser())
	scanner := bufio.NewScanner(app.Stdin)

	// Pipes get a single exchange and no prompt.
	isPipe := true
	if f, ok := app.Stdin.(*os.File); ok {
		if stat, err := f.Stat(); err == nil {
			isPipe = (stat.Mode() & os.ModeCharDevice) == 0
		}
	}

	if !isPipe {
		fmt.Fprint(app.Stdout, prompt)
	}

	var history []llm.Message

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			if !isPipe {
				fmt.Fprint(app.Stdout, prompt)
			}
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, newHistory, err := ag.Run(ctx, history, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintln(app.Stdout, reply)
			history = llm.TrimMessages(newHistory, ag.MaxContextTokens())
		}

		if isPipe {
			break
		}
		fmt.Fprint(app.Stdout, prompt)
	}
	return scanner.Err()
}

// localUser identifies whoever is at the terminal.
func localUser() *agent.User {
	u := &agent.User{Provider: "local"}
	if cur, err := user.Current(); err == nil {
		u.Name = cur.Username
		u.DisplayName = cur.Name
	}
	return u
}
