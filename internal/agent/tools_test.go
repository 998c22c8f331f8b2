package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/twentyfour/internal/llm"
	"github.com/chris/twentyfour/internal/vault"
)

var testNow = time.Date(2024, 3, 5, 9, 45, 12, 0, time.FixedZone("CET", 3600))

// MockCaller stands in for the vault gateway.
type MockCaller struct {
	payloads []vault.Payload
	result   vault.Result
}

func (m *MockCaller) Call(_ context.Context, p vault.Payload) vault.Result {
	m.payloads = append(m.payloads, p)
	res := m.result
	res.Payload = p
	return res
}

func newTestAgent(client llm.Client) (*Agent, *MockCaller) {
	caller := &MockCaller{result: vault.Result{Outcome: vault.OutcomeOK, StatusCode: 200, Response: []byte(`{"ok":true}`)}}
	svc := vault.NewService(caller, func() time.Time { return testNow })
	return New(DefaultConfig(), client, svc), caller
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestExecuteTool_ClockCreate(t *testing.T) {
	a, caller := newTestAgent(nil)

	out, isError := a.executeTool(context.Background(), "clock_create", map[string]any{
		"mode":       "plan",
		"start_time": "09:00",
		"end_time":   "10:00",
		"label":      "Write report",
		"date":       "2024-03-05",
	})

	assert.False(t, isError)
	assert.JSONEq(t, `{"ok":true}`, out)
	require.Len(t, caller.payloads, 1)
	b, _ := json.Marshal(caller.payloads[0])
	assert.JSONEq(t,
		`{"action":"create","mode":"plan","date":"2024-03-05","slots":[{"startMinute":540,"endMinute":600,"label":"Write report","notes":""}]}`,
		string(b))
}

func TestExecuteTool_ClockUpdatePatchOnlyProvided(t *testing.T) {
	a, caller := newTestAgent(nil)

	_, isError := a.executeTool(context.Background(), "clock_update", map[string]any{
		"mode":                 "retrospect",
		"where_label_contains": "sleep",
		"patch_notes":          "rescheduled",
	})
	require.False(t, isError)
	require.Len(t, caller.payloads, 1)

	b, _ := json.Marshal(caller.payloads[0])
	got := decode(t, string(b))
	assert.Equal(t, map[string]any{"labelContains": "sleep"}, got["where"])
	assert.Equal(t, map[string]any{"notes": "rescheduled"}, got["patch"])
	assert.Equal(t, float64(1), got["limit"])
	assert.Equal(t, "2024-03-05", got["date"])
}

func TestExecuteTool_ClockReadAndDelete(t *testing.T) {
	a, caller := newTestAgent(nil)
	ctx := context.Background()

	_, isError := a.executeTool(ctx, "clock_read", map[string]any{"mode": "plan", "label_contains": "gym", "to_date": "2024-03-07"})
	require.False(t, isError)
	_, isError = a.executeTool(ctx, "clock_delete", map[string]any{"mode": "plan", "where_label": "Gym", "limit": float64(2)})
	require.False(t, isError)

	require.Len(t, caller.payloads, 2)
	read := caller.payloads[0]
	assert.Equal(t, vault.ActionRead, read.Action)
	assert.Equal(t, "2024-03-05", read.FromDate)
	assert.Equal(t, "2024-03-07", read.ToDate)
	assert.Equal(t, &vault.Where{LabelContains: "gym"}, read.Where)

	del := caller.payloads[1]
	assert.Equal(t, vault.ActionDelete, del.Action)
	assert.Equal(t, 2, *del.Limit)
	assert.Equal(t, "Gym", del.Where.Label)
}

func TestExecuteTool_ValidationErrorsSkipVault(t *testing.T) {
	a, caller := newTestAgent(nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		tool   string
		params map[string]any
		want   string
	}{
		{"bad mode", "clock_read", map[string]any{"mode": "review"}, "mode must be"},
		{"missing mode", "clock_delete", map[string]any{}, "mode must be"},
		{"hour out of range", "clock_create", map[string]any{"mode": "plan", "start_time": "24:00", "end_time": "10:00", "label": "x"}, "start_time hour must be in 0..23"},
		{"bad time", "clock_create", map[string]any{"mode": "plan", "start_time": "9am", "end_time": "10:00", "label": "x"}, "start_time must be HH:MM"},
		{"bad date", "clock_update", map[string]any{"mode": "plan", "date": "03/05/2024"}, "YYYY-MM-DD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, isError := a.executeTool(ctx, tc.tool, tc.params)
			assert.True(t, isError)
			got := decode(t, out)
			assert.Equal(t, false, got["ok"])
			assert.Contains(t, got["error"], tc.want)
		})
	}
	assert.Empty(t, caller.payloads)
}

func TestExecuteTool_ValidationErrorNamesField(t *testing.T) {
	a, _ := newTestAgent(nil)
	out, isError := a.executeTool(context.Background(), "clock_create",
		map[string]any{"mode": "plan", "start_time": "09:00", "end_time": "10:75", "label": "x"})
	assert.True(t, isError)
	assert.JSONEq(t, `{"ok":false,"error":"end_time minute must be in 0..59","field":"end_time"}`, out)
}

func TestErrorJSON_PlainError(t *testing.T) {
	assert.JSONEq(t, `{"ok":false,"error":"unknown tool: \"x\""}`, errorJSON(fmt.Errorf("unknown tool: %q", "x")))
}

func TestExecuteTool_RemoteFailureFlagged(t *testing.T) {
	a, caller := newTestAgent(nil)
	caller.result = vault.Result{Outcome: vault.OutcomeHTTPError, StatusCode: 500, Body: "server error"}

	out, isError := a.executeTool(context.Background(), "clock_read", map[string]any{"mode": "plan"})

	assert.True(t, isError)
	got := decode(t, out)
	assert.Equal(t, "HTTP 500", got["error"])
	assert.Equal(t, "server error", got["body"])
	assert.Equal(t, "read", got["payload"].(map[string]any)["action"])
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	a, _ := newTestAgent(nil)
	out, isError := a.executeTool(context.Background(), "list_todos", nil)
	assert.True(t, isError)
	assert.Contains(t, out, "unknown tool: list_todos")
}

func TestExecuteTool_TodayContext(t *testing.T) {
	a, _ := newTestAgent(nil)
	out, isError := a.executeTool(context.Background(), "today_context", map[string]any{})
	require.False(t, isError)
	assert.Equal(t, map[string]any{
		"today":    "2024-03-05",
		"now_iso":  "2024-03-05T09:45:12+01:00",
		"timezone": "CET",
	}, decode(t, out))
}

func TestExecuteTool_InspectUserContext(t *testing.T) {
	a, _ := newTestAgent(nil)

	out, _ := a.executeTool(context.Background(), "inspect_user_context", map[string]any{})
	anon := decode(t, out)
	assert.Equal(t, false, anon["ok"])
	assert.NotEmpty(t, anon["message"])
	assert.Regexp(t, `^sig-\d{4}$`, anon["session_sig"])

	ctx := WithUser(context.Background(), &User{Name: "ada", DisplayName: "Ada L.", Email: "ada@example.com", Provider: "discord"})
	out, _ = a.executeTool(ctx, "inspect_user_context", map[string]any{"purpose": "greeting"})
	got := decode(t, out)
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "Ada L.", got["name"])
	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, "discord", got["provider"])
	assert.Regexp(t, `^sig-\d{4}$`, got["session_sig"])
}

func TestUserFromContext_FallsBackToName(t *testing.T) {
	ctx := WithUser(context.Background(), &User{Name: "ada", Provider: "local"})
	got := inspectUserContext(ctx)
	assert.Equal(t, "ada", got["name"])

	_, ok := UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}

// --- Run ---

// MockClient replays canned responses and records what it was sent.
type MockClient struct {
	responses []*llm.Response
	err       error
	calls     [][]llm.Message
	system    string
}

func (m *MockClient) Chat(_ context.Context, system string, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	m.system = system
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &llm.Response{Content: "done"}, nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func TestRun_ToolLoop(t *testing.T) {
	client := &MockClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "today_context", Params: map[string]any{}}}},
		{ToolCalls: []llm.ToolCall{{ID: "c2", Name: "clock_create", Params: map[string]any{
			"mode": "retrospect", "start_time": "09:30", "end_time": "09:45", "label": "Emails",
		}}}},
		{Content: "Logged 09:30-09:45 Emails."},
	}}
	a, caller := newTestAgent(client)

	reply, history, err := a.Run(context.Background(), nil, "I just did emails for the last 15 min")
	require.NoError(t, err)

	assert.Equal(t, "Logged 09:30-09:45 Emails.", reply)
	assert.Equal(t, llm.Instructions, client.system)
	require.Len(t, caller.payloads, 1)
	assert.Equal(t, vault.ModeRetrospect, caller.payloads[0].Mode)

	// user, assistant+call, result, assistant+call, result, final
	require.Len(t, history, 6)
	assert.Equal(t, "c1", history[2].ToolCallID)
	assert.Equal(t, "c2", history[4].ToolCallID)
	assert.False(t, history[4].IsError)
	assert.Equal(t, llm.RoleAssistant, history[5].Role)
}

func TestRun_ValidationErrorReachesModel(t *testing.T) {
	client := &MockClient{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "clock_create", Params: map[string]any{
			"mode": "plan", "start_time": "25:00", "end_time": "26:00", "label": "x",
		}}}},
		{Content: "What time did you mean?"},
	}}
	a, caller := newTestAgent(client)

	reply, history, err := a.Run(context.Background(), nil, "plan x at 25")
	require.NoError(t, err)
	assert.Equal(t, "What time did you mean?", reply)
	assert.Empty(t, caller.payloads)
	assert.True(t, history[2].IsError)
	assert.Contains(t, history[2].Content, "start_time hour must be in 0..23")
}

func TestRun_StopsAfterMaxRounds(t *testing.T) {
	loop := &llm.Response{ToolCalls: []llm.ToolCall{{ID: "c", Name: "today_context", Params: map[string]any{}}}}
	client := &MockClient{responses: []*llm.Response{loop, loop, loop}}
	cfg := DefaultConfig()
	cfg.MaxToolRounds = 2
	a := New(cfg, client, vault.NewService(&MockCaller{}, func() time.Time { return testNow }))

	reply, _, err := a.Run(context.Background(), nil, "hi")
	require.NoError(t, err)
	assert.Contains(t, reply, "maximum number of tool calls")
	assert.Len(t, client.calls, 2)
}

func TestRun_ChatError(t *testing.T) {
	client := &MockClient{err: errors.New("boom")}
	a, _ := newTestAgent(client)

	_, _, err := a.Run(context.Background(), nil, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm chat: boom")
}

func TestRun_DoesNotMutateHistory(t *testing.T) {
	client := &MockClient{}
	a, _ := newTestAgent(client)
	history := []llm.Message{{Role: llm.RoleUser, Content: "earlier"}, {Role: llm.RoleAssistant, Content: "ok"}}

	_, newHistory, err := a.Run(context.Background(), history, "now")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Len(t, newHistory, 4)
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{Instructions: "x"}, &MockClient{}, nil)
	assert.Equal(t, defaultMaxContextTokens, a.MaxContextTokens())
	assert.Equal(t, defaultMaxToolRounds, a.cfg.MaxToolRounds)
}
