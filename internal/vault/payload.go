package vault

import "time"

type Mode string

const (
	ModePlan       Mode = "plan"
	ModeRetrospect Mode = "retrospect"
)

// ParseMode accepts only the two vault modes; names are never transformed.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePlan, ModeRetrospect:
		return Mode(s), nil
	}
	return "", invalid("mode", "must be %q or %q, got %q", ModePlan, ModeRetrospect, s)
}

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// DefaultLimit caps how many matching slots an update or delete touches.
const DefaultLimit = 1

type Slot struct {
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Label       string `json:"label"`
	Notes       string `json:"notes"`
}

// Where filters slots by exact label and/or label substring.
type Where struct {
	Label         string `json:"label,omitempty"`
	LabelContains string `json:"labelContains,omitempty"`
}

func (w Where) empty() bool { return w.Label == "" && w.LabelContains == "" }

// Patch holds the fields an update changes. A nil field is left alone;
// a pointer to "" clears it.
type Patch struct {
	Label *string `json:"label,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Payload is the request body of POST /api/vault/crud.
type Payload struct {
	Action   Action `json:"action"`
	Mode     Mode   `json:"mode"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
	Date     string `json:"date,omitempty"`
	Slots    []Slot `json:"slots,omitempty"`
	Where    *Where `json:"where,omitempty"`
	Patch    *Patch `json:"patch,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
}

type ReadRequest struct {
	Mode          Mode
	FromDate      string
	ToDate        string
	Label         string
	LabelContains string
}

type CreateRequest struct {
	Mode      Mode
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Label     string
	Notes     string
	Date      string
}

type UpdateRequest struct {
	Mode               Mode
	Date               string
	WhereLabel         string
	WhereLabelContains string
	PatchLabel         *string
	PatchNotes         *string
	Limit              int
}

type DeleteRequest struct {
	Mode               Mode
	Date               string
	WhereLabel         string
	WhereLabelContains string
	Limit              int
}

func BuildRead(req ReadRequest, now time.Time) (Payload, error) {
	from, err := DateOrToday(req.FromDate, now)
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Action: ActionRead, Mode: req.Mode, FromDate: from}
	if req.ToDate != "" {
		to, err := DateOrToday(req.ToDate, now)
		if err != nil {
			return Payload{}, err
		}
		p.ToDate = to
	}
	if w := (Where{Label: req.Label, LabelContains: req.LabelContains}); !w.empty() {
		p.Where = &w
	}
	return p, nil
}

// BuildCreate always emits exactly one slot. Several things done in the same
// slot have to be merged into one label/notes by the caller.
func BuildCreate(req CreateRequest, now time.Time) (Payload, error) {
	start, err := ToMinute(req.StartTime, "start_time")
	if err != nil {
		return Payload{}, err
	}
	end, err := ToMinute(req.EndTime, "end_time")
	if err != nil {
		return Payload{}, err
	}
	date, err := DateOrToday(req.Date, now)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Action: ActionCreate,
		Mode:   req.Mode,
		Date:   date,
		Slots: []Slot{{
			StartMinute: start,
			EndMinute:   end,
			Label:       req.Label,
			Notes:       req.Notes,
		}},
	}, nil
}

func BuildUpdate(req UpdateRequest, now time.Time) (Payload, error) {
	date, err := DateOrToday(req.Date, now)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Action: ActionUpdate,
		Mode:   req.Mode,
		Date:   date,
		Where:  &Where{Label: req.WhereLabel, LabelContains: req.WhereLabelContains},
		Patch:  &Patch{Label: req.PatchLabel, Notes: req.PatchNotes},
		Limit:  limitOrDefault(req.Limit),
	}, nil
}

func BuildDelete(req DeleteRequest, now time.Time) (Payload, error) {
	date, err := DateOrToday(req.Date, now)
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Action: ActionDelete,
		Mode:   req.Mode,
		Date:   date,
		Where:  &Where{Label: req.WhereLabel, LabelContains: req.WhereLabelContains},
		Limit:  limitOrDefault(req.Limit),
	}, nil
}

func limitOrDefault(n int) *int {
	if n <= 0 {
		n = DefaultLimit
	}
	return &n
}
