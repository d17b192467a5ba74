package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"FinanceHarvester/internal/notifier"
	"FinanceHarvester/internal/pipeline"
	"FinanceHarvester/internal/scheduler"
)

type scheduleCmd struct {
	now bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run the harvest on the configured cron schedule" }
func (*scheduleCmd) Usage() string {
	return `harvester schedule [-now]

  Stays in the foreground and runs the harvest on schedule.cron. When
  Telegram is configured, every run summary is sent to the chat and the
  /run and /status commands are answered. Stop with Ctrl+C.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.now, "now", os.Getenv("RUN_ON_START") == "true", "Also run once immediately.")
}

func (c *scheduleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}

	run := func(ctx context.Context) *pipeline.Summary {
		return pipeline.RunOnce(ctx, cfg, pipeline.Request{}, logger)
	}
	sched := scheduler.NewScheduler(ctx, run, tn, logger)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.Error("register cron task", zap.Error(err))
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}
	if c.now {
		logger.Info("running harvest now")
		go sched.RunNow()
	}

	logger.Info("harvester is running, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron))
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
	return subcommands.ExitSuccess
}
