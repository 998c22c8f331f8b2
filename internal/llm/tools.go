package llm

var modeProp = map[string]any{
	"type":        "string",
	"enum":        []string{"plan", "retrospect"},
	"description": "Slot mode: plan (intention) or retrospect (what actually happened)",
}

// AgentTools are the tools the planner agent exposes to the model.
var AgentTools = []Tool{
	{
		Name:        "today_context",
		Description: "Return current local date/time context so date-based questions are grounded.",
		Parameters:  obj(nil),
	},
	{
		Name:        "inspect_user_context",
		Description: "Inspect the current conversation and return the authenticated user (name, email, provider).",
		Parameters: obj(map[string]any{
			"purpose": prop("string", "Why the user context is needed (default: verifying user context)"),
		}),
	},
	{
		Name:        "clock_read",
		Description: "Read plan/retrospect slots for a date or date range.",
		Parameters: objReq(map[string]any{
			"mode":           modeProp,
			"from_date":      prop("string", "Start date YYYY-MM-DD (default today)"),
			"to_date":        prop("string", "Optional end date YYYY-MM-DD"),
			"label":          prop("string", "Exact label match"),
			"label_contains": prop("string", "Fuzzy label match, e.g. 'sleep'"),
		}, "mode"),
	},
	{
		Name:        "clock_create",
		Description: "Create one slot on the requested day and mode using HH:MM strings.",
		Parameters: objReq(map[string]any{
			"mode":       modeProp,
			"start_time": prop("string", "Start time HH:MM (24h)"),
			"end_time":   prop("string", "End time HH:MM (24h)"),
			"label":      prop("string", "What the slot is for. One task per slot."),
			"notes":      prop("string", "Optional notes"),
			"date":       prop("string", "Date YYYY-MM-DD (default today)"),
		}, "mode", "start_time", "end_time", "label"),
	},
	{
		Name:        "clock_update",
		Description: "Update matching slots (for example rename a planned task).",
		Parameters: objReq(map[string]any{
			"mode":                 modeProp,
			"date":                 prop("string", "Date YYYY-MM-DD (default today)"),
			"where_label":          prop("string", "Exact label of the slot to change"),
			"where_label_contains": prop("string", "Fuzzy label of the slot to change"),
			"patch_label":          prop("string", "New label"),
			"patch_notes":          prop("string", "New notes; empty string clears them"),
			"limit":                prop("integer", "Max slots to update (default 1)"),
		}, "mode"),
	},
	{
		Name:        "clock_delete",
		Description: "Delete matching slots.",
		Parameters: objReq(map[string]any{
			"mode":                 modeProp,
			"date":                 prop("string", "Date YYYY-MM-DD (default today)"),
			"where_label":          prop("string", "Exact label of the slot to delete"),
			"where_label_contains": prop("string", "Fuzzy label of the slot to delete"),
			"limit":                prop("integer", "Max slots to delete (default 1)"),
		}, "mode"),
	},
}

// Helper functions for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}
