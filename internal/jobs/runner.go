// Package jobs runs the ledger batch jobs with an overlap guard.
//
// A run that finds its job already locked is skipped and reported, never
// queued. Every run is counted and timed in the job metrics.
package jobs

import (
	"context"
	"time"

	"github.com/segyhp/tontine-ledger/internal/metrics"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/log"
)

// Job results
const (
	ResultSuccess = "success"
	ResultSkipped = "skipped"
	ResultError   = "error"
)

// Func runs one job and returns a one-line summary
type Func func(ctx context.Context) (string, error)

// Outcome describes one finished run
type Outcome struct {
	Job      string
	Result   string
	Summary  string
	Duration time.Duration
}

type Runner struct {
	locker Locker
	ttl    time.Duration
}

func NewRunner(locker Locker, ttl time.Duration) *Runner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Runner{locker: locker, ttl: ttl}
}

// Run executes fn under the lock for name. A held lock is not an error.
func (r *Runner) Run(ctx context.Context, name string, fn Func) (Outcome, error) {
	logger := log.WithJob(name)
	timer := metrics.NewTimer()
	outcome := Outcome{Job: name}

	release, ok, err := r.locker.TryLock(ctx, name, r.ttl)
	if err != nil {
		outcome.Result = ResultError
		outcome.Duration = timer.Duration()
		metrics.JobRunsTotal.WithLabelValues(name, ResultError).Inc()
		logger.Error().Err(err).Msg("could not acquire job lock")
		return outcome, customError.WrapCacheError(err)
	}
	if !ok {
		outcome.Result = ResultSkipped
		outcome.Summary = name + ": skipped, another run is in progress"
		outcome.Duration = timer.Duration()
		metrics.JobRunsTotal.WithLabelValues(name, ResultSkipped).Inc()
		logger.Warn().Msg("job already running, skipping")
		return outcome, nil
	}
	defer release()

	logger.Info().Msg("job started")
	summary, err := fn(ctx)
	outcome.Duration = timer.Duration()
	timer.ObserveDurationVec(metrics.JobDuration, name)

	if err != nil {
		outcome.Result = ResultError
		metrics.JobRunsTotal.WithLabelValues(name, ResultError).Inc()
		logger.Error().Err(err).Dur("duration", outcome.Duration).Msg("job failed")
		return outcome, err
	}

	outcome.Result = ResultSuccess
	outcome.Summary = summary
	metrics.JobRunsTotal.WithLabelValues(name, ResultSuccess).Inc()
	logger.Info().Str("summary", summary).Dur("duration", outcome.Duration).Msg("job finished")
	return outcome, nil
}
