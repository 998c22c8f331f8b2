package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// User is the authenticated person behind a conversation, as supplied by the chat surface.
type User struct {
	DisplayName string
	Name        string
	Email       string
	Provider    string // discord, local, ...
}

type userKey struct{}

// WithUser attaches the conversation's user to ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user attached by WithUser, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}

// inspectUserContext reports who the agent is talking to. session_sig is a
// throwaway tag for telling calls apart in logs, not a credential.
func inspectUserContext(ctx context.Context) map[string]any {
	sig := fmt.Sprintf("sig-%d", 1000+rand.IntN(9000))
	u, ok := UserFromContext(ctx)
	if !ok {
		return map[string]any{
			"ok":          false,
			"message":     "no user attached to this conversation",
			"session_sig": sig,
		}
	}
	name := u.DisplayName
	if name == "" {
		name = u.Name
	}
	return map[string]any{
		"ok":          true,
		"name":        name,
		"email":       u.Email,
		"provider":    u.Provider,
		"session_sig": sig,
	}
}
