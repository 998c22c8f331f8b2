package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/chris/twentyfour/internal/agent"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(app *Context) error {
	return app.printJSON(agent.TodayContext(app.Now()))
}

type CallsCmd struct {
	Limit  int  `short:"n" help:"How many calls to show." default:"20"`
	Failed bool `short:"f" help:"Only show failed or rejected calls."`
}

func (c *CallsCmd) Run(app *Context) error {
	d, err := app.DB()
	if err != nil {
		return err
	}
	calls, err := d.ListRecentCalls(c.Limit, c.Failed)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		fmt.Fprintln(app.Stdout, "No vault calls recorded")
		return nil
	}
	for _, call := range calls {
		status := call.Outcome
		if call.Status != 0 {
			status = fmt.Sprintf("%s %d", status, call.Status)
		}
		fmt.Fprintf(app.Stdout, "%-14s  %-6s  %-10s  %-20s  %6dms  %s\n",
			humanize.Time(call.CalledAt), call.Action, call.Mode, status, call.Duration.Milliseconds(), call.RequestID)
		if call.Error != "" {
			fmt.Fprintf(app.Stdout, "                Error: %s\n", call.Error)
		}
	}
	return nil
}

type SchedulesCmd struct {
	Enable  string `help:"Enable the named schedule." xor:"toggle"`
	Disable string `help:"Disable the named schedule." xor:"toggle"`
}

func (c *SchedulesCmd) Run(app *Context) error {
	d, err := app.DB()
	if err != nil {
		return err
	}
	switch {
	case c.Enable != "":
		if err := d.SetScheduleEnabled(c.Enable, true); err != nil {
			return err
		}
	case c.Disable != "":
		if err := d.SetScheduleEnabled(c.Disable, false); err != nil {
			return err
		}
	}

	schedules, err := d.ListSchedules(false)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Fprintln(app.Stdout, "No schedules (they are seeded when the bot first starts)")
		return nil
	}
	for _, s := range schedules {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		lastRun := "never"
		if s.LastRun != "" {
			lastRun = s.LastRun
		}
		fmt.Fprintf(app.Stdout, "%-20s  %-12s  %-8s  last run: %s\n", s.Name, s.CronExpr, state, lastRun)
	}
	return nil
}
