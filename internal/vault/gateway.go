package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	crudPath       = "/api/vault/crud"
	DefaultTimeout = 10 * time.Second
)

// CallRecord is one journaled vault call.
type CallRecord struct {
	RequestID  string
	Action     Action
	Mode       Mode
	Outcome    Outcome
	StatusCode int
	Error      string
	Duration   time.Duration
	At         time.Time
}

// Recorder persists call records for offline diagnosis.
type Recorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

// Gateway POSTs CRUD payloads to the vault service. One attempt per call, no retries.
type Gateway struct {
	endpoint string
	http     *http.Client
	recorder Recorder
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func NewGateway(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		endpoint: strings.TrimRight(baseURL, "/") + crudPath,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Endpoint() string { return g.endpoint }

// Call never returns an error: transport and HTTP failures come back as a Result.
func (g *Gateway) Call(ctx context.Context, p Payload) Result {
	start := time.Now()
	res := g.do(ctx, p)
	res.RequestID = uuid.NewString()
	elapsed := time.Since(start)

	logger := log.With("request_id", res.RequestID, "action", p.Action, "mode", p.Mode)
	switch {
	case res.Outcome == OutcomeHTTPError:
		logger.Error("vault: HTTP error", "status", res.StatusCode, "body", res.Body, "payload", payloadJSON(p))
	case res.Outcome == OutcomeTransportError:
		logger.Error("vault: unexpected error", "err", res.Err, "payload", payloadJSON(p))
	case res.Rejected():
		logger.Warn("vault: tool error response", "response", string(res.Response))
	default:
		logger.Debug("vault call", "status", res.StatusCode, "duration", elapsed)
	}

	if g.recorder != nil {
		rec := CallRecord{
			RequestID:  res.RequestID,
			Action:     p.Action,
			Mode:       p.Mode,
			Outcome:    res.Outcome,
			StatusCode: res.StatusCode,
			Error:      res.ErrorText(),
			Duration:   elapsed,
			At:         start,
		}
		if err := g.recorder.RecordCall(context.WithoutCancel(ctx), rec); err != nil {
			logger.Warn("vault: recording call", "err", err)
		}
	}
	return res
}

func (g *Gateway) do(ctx context.Context, p Payload) Result {
	body, err := json.Marshal(p)
	if err != nil {
		return transportError(p, fmt.Errorf("marshaling payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportError(p, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return transportError(p, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(p, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{
			Outcome:    OutcomeHTTPError,
			StatusCode: resp.StatusCode,
			Body:       strings.ToValidUTF8(string(respBody), "\uFFFD"),
			Payload:    p,
		}
	}

	if !gjson.ValidBytes(respBody) {
		return transportError(p, fmt.Errorf("malformed response body: %q", truncate(string(respBody), 200)))
	}
	return Result{
		Outcome:    OutcomeOK,
		StatusCode: resp.StatusCode,
		Response:   json.RawMessage(respBody),
		Payload:    p,
	}
}

func transportError(p Payload, err error) Result {
	return Result{Outcome: OutcomeTransportError, Err: err, Payload: p}
}

func payloadJSON(p Payload) string {
	b, _ := json.Marshal(p) // Payload holds only strings, ints and pointers to them
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
