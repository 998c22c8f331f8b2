package vault

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Outcome tags what happened to a vault call.
type Outcome int

const (
	OutcomeOK             Outcome = iota // 2xx with a JSON body, returned verbatim
	OutcomeHTTPError                     // non-2xx status
	OutcomeTransportError                // DNS, refused, timeout, malformed body
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeTransportError:
		return "transport_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the value of a vault call. Remote failures are results, not errors,
// so the agent can narrate them to the user.
type Result struct {
	Outcome    Outcome
	RequestID  string
	StatusCode int             // set for OK and HTTPError
	Response   json.RawMessage // OK only
	Body       string          // HTTPError only: raw response text
	Err        error           // TransportError only
	Payload    Payload
}

// Rejected reports a 2xx response whose body is an object carrying ok:false.
func (r Result) Rejected() bool {
	if r.Outcome != OutcomeOK {
		return false
	}
	v := gjson.ParseBytes(r.Response)
	return v.IsObject() && v.Get("ok").Type == gjson.False
}

// Failed reports any call that did not succeed, including vault-side rejections.
func (r Result) Failed() bool {
	return r.Outcome != OutcomeOK || r.Rejected()
}

// ErrorText is the "error" field of the rendered failure.
func (r Result) ErrorText() string {
	switch r.Outcome {
	case OutcomeHTTPError:
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	case OutcomeTransportError:
		if r.Err != nil {
			return r.Err.Error()
		}
		return "unknown error"
	}
	if r.Rejected() {
		return gjson.GetBytes(r.Response, "error").String()
	}
	return ""
}

type failure struct {
	OK      bool    `json:"ok"`
	Error   string  `json:"error"`
	Body    *string `json:"body,omitempty"`
	Payload Payload `json:"payload"`
}

// MarshalJSON renders the uniform shape handed back to the agent: the vault's
// own body on success, {ok:false, error, [body], payload} otherwise.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Outcome {
	case OutcomeOK:
		if len(r.Response) == 0 {
			return []byte("null"), nil
		}
		return r.Response, nil
	case OutcomeHTTPError:
		body := r.Body
		return json.Marshal(failure{Error: r.ErrorText(), Body: &body, Payload: r.Payload})
	default:
		return json.Marshal(failure{Error: r.ErrorText(), Payload: r.Payload})
	}
}
