package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tidwall/sjson"

	"github.com/chris/twentyfour/internal/vault"
)

const defaultPurpose = "verifying user context"

// executeTool runs one tool call and returns its JSON result. isError is set for
// argument errors, unknown tools and failed vault calls, so the model can explain
// the failure or ask the user to clarify.
func (a *Agent) executeTool(ctx context.Context, name string, params map[string]any) (string, bool) {
	var result any
	var err error

	switch name {
	case "today_context":
		result = TodayContext(a.vault.Now())

	case "inspect_user_context":
		purpose, _ := getString(params, "purpose")
		if purpose == "" {
			purpose = defaultPurpose
		}
		log.Debug("inspect_user_context", "purpose", purpose)
		result = inspectUserContext(ctx)

	case "clock_read":
		var mode vault.Mode
		if mode, err = getMode(params); err != nil {
			break
		}
		from, _ := getString(params, "from_date")
		to, _ := getString(params, "to_date")
		label, _ := getString(params, "label")
		contains, _ := getString(params, "label_contains")
		result, err = a.vault.Read(ctx, vault.ReadRequest{
			Mode:          mode,
			FromDate:      from,
			ToDate:        to,
			Label:         label,
			LabelContains: contains,
		})

	case "clock_create":
		var mode vault.Mode
		if mode, err = getMode(params); err != nil {
			break
		}
		start, _ := getString(params, "start_time")
		end, _ := getString(params, "end_time")
		label, _ := getString(params, "label")
		notes, _ := getString(params, "notes")
		date, _ := getString(params, "date")
		result, err = a.vault.Create(ctx, vault.CreateRequest{
			Mode:      mode,
			StartTime: start,
			EndTime:   end,
			Label:     label,
			Notes:     notes,
			Date:      date,
		})

	case "clock_update":
		var mode vault.Mode
		if mode, err = getMode(params); err != nil {
			break
		}
		date, _ := getString(params, "date")
		whereLabel, _ := getString(params, "where_label")
		whereContains, _ := getString(params, "where_label_contains")
		result, err = a.vault.Update(ctx, vault.UpdateRequest{
			Mode:               mode,
			Date:               date,
			WhereLabel:         whereLabel,
			WhereLabelContains: whereContains,
			PatchLabel:         getOptString(params, "patch_label"),
			PatchNotes:         getOptString(params, "patch_notes"),
			Limit:              getLimit(params),
		})

	case "clock_delete":
		var mode vault.Mode
		if mode, err = getMode(params); err != nil {
			break
		}
		date, _ := getString(params, "date")
		whereLabel, _ := getString(params, "where_label")
		whereContains, _ := getString(params, "where_label_contains")
		result, err = a.vault.Delete(ctx, vault.DeleteRequest{
			Mode:               mode,
			Date:               date,
			WhereLabel:         whereLabel,
			WhereLabelContains: whereContains,
			Limit:              getLimit(params),
		})

	default:
		err = fmt.Errorf("unknown tool: %s", name)
	}

	if err != nil {
		return errorJSON(err), true
	}
	isError := false
	if r, ok := result.(vault.Result); ok && r.Failed() {
		isError = true
	}

	b, mErr := json.Marshal(result)
	if mErr != nil {
		// only a vault body that gjson accepted but encoding/json rejects can land here
		return errorJSON(mErr), true
	}
	return string(b), isError
}

// errorJSON renders err as {"ok":false,"error":...}, naming the bad argument
// for validation errors.
func errorJSON(err error) string {
	out, _ := sjson.Set(`{"ok":false}`, "error", err.Error())
	var ve *vault.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		out, _ = sjson.Set(out, "field", ve.Field)
	}
	return out
}

// Param extraction helpers. LLMs send numbers as float64 in JSON.
func getInt(params map[string]any, key string) (int64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// getOptString distinguishes an absent (or null) key from an explicit "".
func getOptString(params map[string]any, key string) *string {
	s, ok := getString(params, key)
	if !ok {
		return nil
	}
	return &s
}

func getMode(params map[string]any) (vault.Mode, error) {
	s, _ := getString(params, "mode")
	return vault.ParseMode(s)
}

func getLimit(params map[string]any) int {
	if n, ok := getInt(params, "limit"); ok {
		return int(n)
	}
	return vault.DefaultLimit
}
