package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/chris/twentyfour/internal/discord"
	"github.com/chris/twentyfour/internal/scheduler"
)

type BotCmd struct {
	NoSchedule bool `help:"Don't run the plan/retrospect check-ins."`
}

func (c *BotCmd) Run(app *Context) error {
	cfg := app.Config
	if cfg.DiscordToken == "" {
		return errors.New("DISCORD_BOT_TOKEN is not set")
	}
	ag, err := app.Agent()
	if err != nil {
		return err
	}
	d, err := app.DB()
	if err != nil {
		return err
	}

	bot, err := discord.NewBot(cfg.DiscordToken, ag)
	if err != nil {
		return err
	}
	defer bot.Close()

	if !c.NoSchedule {
		sched := scheduler.New(d, ag, cfg.DiscordWebhook, bot.SendDM, cfg.DiscordDMUserID)
		sched.SeedDefaultSchedules(cfg.PlanCron, cfg.RetroCron)
		sched.Start()
		defer sched.Stop()
	}

	log.Info("bot is running. Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down.")
	return nil
}
