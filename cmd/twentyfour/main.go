package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/chris/twentyfour/config"
	"github.com/chris/twentyfour/internal/cli"
	"github.com/chris/twentyfour/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag

	Chat      cli.ChatCmd      `cmd:"" help:"Talk to the assistant in the terminal." default:"1"`
	Bot       cli.BotCmd       `cmd:"" help:"Run the Discord bot and the check-in scheduler."`
	Read      cli.ReadCmd      `cmd:"" help:"Read plan or retrospect slots."`
	Create    cli.CreateCmd    `cmd:"" help:"Create a slot."`
	Update    cli.UpdateCmd    `cmd:"" help:"Update matching slots."`
	Delete    cli.DeleteCmd    `cmd:"" help:"Delete matching slots."`
	Today     cli.TodayCmd     `cmd:"" help:"Show today's date, time and timezone."`
	Calls     cli.CallsCmd     `cmd:"" help:"Show recent vault calls."`
	Schedules cli.SchedulesCmd `cmd:"" help:"List or toggle check-in schedules."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("twentyfour"),
		kong.Description("Plan your day and reflect on it at the end of the day."),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})

	app := cli.NewContext(cfg)
	err := ctx.Run(app)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
