package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/tontine-ledger/internal/domain"
)

// Job names shared by the scheduler and the CLI
const (
	ResetShares       = "reset-shares"
	DistributeProfits = "distribute-profits"
	AccruePenalties   = "accrue-penalties"
)

// Ledger is the part of the ledger service the batch jobs drive
type Ledger interface {
	ResetMonthlyShares(ctx context.Context, asOf time.Time) (*domain.ShareResetReport, error)
	DistributeProfits(ctx context.Context, asOf time.Time) (*domain.DistributionReport, error)
	AccruePenalties(ctx context.Context, asOf time.Time) (*domain.AccrualReport, error)
}

// LedgerJobs binds the three batch operations to a runner
type LedgerJobs struct {
	ledger Ledger
	runner *Runner
}

func NewLedgerJobs(ledger Ledger, runner *Runner) *LedgerJobs {
	return &LedgerJobs{ledger: ledger, runner: runner}
}

// Run executes the named job as of asOf
func (j *LedgerJobs) Run(ctx context.Context, name string, asOf time.Time) (Outcome, error) {
	fn, err := j.job(name, asOf)
	if err != nil {
		return Outcome{Job: name, Result: ResultError}, err
	}
	return j.runner.Run(ctx, name, fn)
}

func (j *LedgerJobs) job(name string, asOf time.Time) (Func, error) {
	switch name {
	case ResetShares:
		return func(ctx context.Context) (string, error) {
			report, err := j.ledger.ResetMonthlyShares(ctx, asOf)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("reset shares for %d members in %s (deadline created: %t)",
				report.MembersReset, report.Month.Format("2006-01"), report.DeadlineCreated), nil
		}, nil
	case DistributeProfits:
		return func(ctx context.Context) (string, error) {
			report, err := j.ledger.DistributeProfits(ctx, asOf)
			if err != nil {
				return "", err
			}
			if report.Outcome != domain.DistributionOutcomeDistributed {
				return "profit distribution skipped: " + report.Outcome, nil
			}
			return fmt.Sprintf("distributed %s to %d members (%s per share, run %s)",
				report.TotalPaid.StringFixed(2), report.MembersPaid, report.PerShare.StringFixed(2), report.RunID), nil
		}, nil
	case AccruePenalties:
		return func(ctx context.Context) (string, error) {
			report, err := j.ledger.AccruePenalties(ctx, asOf)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("penalties as of %s: %d created, %d updated",
				report.AsOf.Format("2006-01-02"), report.Created, report.Updated), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown job %q", name)
	}
}
