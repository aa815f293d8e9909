package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/tontine-ledger/internal/app"
	"github.com/segyhp/tontine-ledger/internal/config"
	"github.com/segyhp/tontine-ledger/internal/jobs"
	"github.com/segyhp/tontine-ledger/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.InitLogging(cfg)
	log.Info("Starting ledger scheduler...")

	ledger, err := app.New(cfg)
	if err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to start")
	}
	defer ledger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cronLogger := log.NewCronLogger(log.WithComponent("cron"))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.GetLocation()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if err := setupCronJobs(ctx, c, cfg, ledger.Jobs); err != nil {
		log.Logger.Fatal().Err(err).Msg("Failed to schedule jobs")
	}

	c.Start()
	log.Logger.Info().Str("timezone", cfg.Scheduler.Timezone).Msg("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	cancel()
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(ctx context.Context, c *cron.Cron, cfg *config.Config, ledgerJobs *jobs.LedgerJobs) error {
	schedule := []struct {
		spec string
		job  string
	}{
		{cfg.Scheduler.ResetSharesSpec, jobs.ResetShares},
		{cfg.Scheduler.DistributionSpec, jobs.DistributeProfits},
		{cfg.Scheduler.PenaltySpec, jobs.AccruePenalties},
	}

	for _, s := range schedule {
		name := s.job
		_, err := c.AddFunc(s.spec, func() {
			// errors are logged and counted by the runner
			_, _ = ledgerJobs.Run(ctx, name, time.Now())
		})
		if err != nil {
			return err
		}
		log.Logger.Info().Str("job", name).Str("spec", s.spec).Msg("job scheduled")
	}
	return nil
}
