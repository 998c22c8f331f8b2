package cli

import (
	"context"
	"fmt"

	"github.com/chris/twentyfour/internal/vault"
)

type ReadCmd struct {
	Mode          string `arg:"" enum:"plan,retrospect" help:"plan or retrospect."`
	From          string `help:"First date (YYYY-MM-DD). Defaults to today."`
	To            string `help:"Last date (YYYY-MM-DD)."`
	Label         string `help:"Exact label to match."`
	LabelContains string `help:"Substring of the label to match."`
}

func (c *ReadCmd) Run(app *Context) error {
	mode, err := vault.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	svc, err := app.Vault()
	if err != nil {
		return err
	}
	res, err := svc.Read(context.Background(), vault.ReadRequest{
		Mode:          mode,
		FromDate:      c.From,
		ToDate:        c.To,
		Label:         c.Label,
		LabelContains: c.LabelContains,
	})
	if err != nil {
		return err
	}
	return app.printResult(res)
}

type CreateCmd struct {
	Mode  string `arg:"" enum:"plan,retrospect" help:"plan or retrospect."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM)."`
	Label string `arg:"" help:"What the slot is for."`
	Notes string `short:"n" help:"Free-form notes."`
	Date  string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *CreateCmd) Run(app *Context) error {
	mode, err := vault.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	svc, err := app.Vault()
	if err != nil {
		return err
	}
	res, err := svc.Create(context.Background(), vault.CreateRequest{
		Mode:      mode,
		StartTime: c.Start,
		EndTime:   c.End,
		Label:     c.Label,
		Notes:     c.Notes,
		Date:      c.Date,
	})
	if err != nil {
		return err
	}
	return app.printResult(res)
}

type UpdateCmd struct {
	Mode          string `arg:"" enum:"plan,retrospect" help:"plan or retrospect."`
	Date          string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Label         string `help:"Match slots with this exact label."`
	LabelContains string `help:"Match slots whose label contains this."`
	SetLabel      string `help:"New label."`
	SetNotes      string `help:"New notes."`
	ClearNotes    bool   `help:"Set notes to the empty string."`
	Limit         int    `help:"Maximum slots to change." default:"1"`
}

func (c *UpdateCmd) Run(app *Context) error {
	mode, err := vault.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	svc, err := app.Vault()
	if err != nil {
		return err
	}
	res, err := svc.Update(context.Background(), c.request(mode))
	if err != nil {
		return err
	}
	return app.printResult(res)
}

func (c *UpdateCmd) request(mode vault.Mode) vault.UpdateRequest {
	req := vault.UpdateRequest{
		Mode:               mode,
		Date:               c.Date,
		WhereLabel:         c.Label,
		WhereLabelContains: c.LabelContains,
		Limit:              c.Limit,
	}
	if c.SetLabel != "" {
		req.PatchLabel = &c.SetLabel
	}
	if c.SetNotes != "" || c.ClearNotes {
		req.PatchNotes = &c.SetNotes
	}
	return req
}

type DeleteCmd struct {
	Mode          string `arg:"" enum:"plan,retrospect" help:"plan or retrospect."`
	Date          string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Label         string `help:"Match slots with this exact label."`
	LabelContains string `help:"Match slots whose label contains this."`
	Limit         int    `help:"Maximum slots to delete." default:"1"`
}

func (c *DeleteCmd) Run(app *Context) error {
	mode, err := vault.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	svc, err := app.Vault()
	if err != nil {
		return err
	}
	res, err := svc.Delete(context.Background(), vault.DeleteRequest{
		Mode:               mode,
		Date:               c.Date,
		WhereLabel:         c.Label,
		WhereLabelContains: c.LabelContains,
		Limit:              c.Limit,
	})
	if err != nil {
		return err
	}
	return app.printResult(res)
}

// printResult writes the result as the agent would see it. Failed calls also
// return an error so the process exits non-zero.
func (c *Context) printResult(res vault.Result) error {
	if err := c.printJSON(res); err != nil {
		return err
	}
	if res.Failed() {
		return fmt.Errorf("vault call failed: %s", res.ErrorText())
	}
	return nil
}
