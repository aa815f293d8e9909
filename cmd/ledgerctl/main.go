package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/segyhp/tontine-ledger/internal/app"
	"github.com/segyhp/tontine-ledger/internal/config"
	"github.com/segyhp/tontine-ledger/internal/jobs"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Operate the tontine ledger",
	Long:          `ledgerctl runs the ledger batch jobs by hand and applies the database schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	for _, job := range []struct {
		name  string
		short string
	}{
		{jobs.ResetShares, "Reset paid shares for the month and ensure its deadline"},
		{jobs.DistributeProfits, "Distribute available profit to members by committed shares"},
		{jobs.AccruePenalties, "Create or update late-share and overdue-loan penalties"},
	} {
		cmd := jobCommand(job.name, job.short)
		cmd.Flags().String("date", "", "Run as of this date (YYYY-MM-DD) instead of now")
		rootCmd.AddCommand(cmd)
	}

	migrateCmd.Flags().String("file", "scripts/init.sql", "SQL schema file to apply")
	rootCmd.AddCommand(migrateCmd)
}

func jobCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app.InitLogging(cfg)

			date, _ := cmd.Flags().GetString("date")
			asOf, err := parseAsOf(date, cfg.GetLocation(), time.Now())
			if err != nil {
				return err
			}

			ledger, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			outcome, err := ledger.Jobs.Run(cmd.Context(), name, asOf)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), outcome.Summary)
			return nil
		},
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		schema, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := app.InitDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if _, err := db.ExecContext(ctx, string(schema)); err != nil {
			return fmt.Errorf("apply %s: %w", file, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", file)
		return nil
	},
}

// parseAsOf returns now, or the start of date in loc when a date is given
func parseAsOf(date string, loc *time.Location, now time.Time) (time.Time, error) {
	if date == "" {
		return now, nil
	}

	asOf, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, customError.WrapValidation(fmt.Sprintf("invalid --date %q, expected YYYY-MM-DD", date))
	}
	return asOf, nil
}

// exitCode is 1 for infrastructure failures and 2 for anything else that stopped the command
func exitCode(err error) int {
	if customError.KindOf(err) == customError.KindInfrastructure {
		return 1
	}
	return 2
}
