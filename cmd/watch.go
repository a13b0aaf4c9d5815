package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/assets/renderer"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

type watchCmd struct {
	schedule string
}

func (*watchCmd) Name() string { return "watch" }
func (*watchCmd) Synopsis() string {
	return "publish the latest month on a schedule"
}
func (*watchCmd) Usage() string {
	return `fa watch [-schedule <cron spec>]

  Runs until interrupted, recomputing and publishing the latest month on
  every tick of the schedule (seconds first, like "0 30 18 * * MON-FRI").
  The trading records are reloaded on each tick.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule, overrides the configuration")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return setupFailed(os.Stderr, err)
	}
	if c.schedule == "" {
		c.schedule = a.config.Schedule
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return exitStatus(a.log, c.watch(ctx, a))
}

// watch publishes the latest month on every tick until ctx is done.
func (c *watchCmd) watch(ctx context.Context, a *app) error {
	p, closeProvider, err := a.provider()
	if err != nil {
		return err
	}
	defer closeProvider()
	pl := a.pipeline(p)
	pl.Artifacts = renderer.Artifacts(nil)

	log := a.log.With().Str("component", "scheduler").Logger()
	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(c.schedule, func() {
		l, err := a.ledger()
		if err != nil {
			log.Error().Err(err).Msg("cannot load trading records")
			return
		}
		if _, err := pl.Update(ctx, l, false); err != nil {
			log.Error().Err(err).Msg("update failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.schedule, err)
	}

	scheduler.Start()
	log.Info().Str("schedule", c.schedule).Msg("Scheduler started")
	<-ctx.Done()
	<-scheduler.Stop().Done()
	log.Info().Msg("Scheduler stopped")
	return nil
}
