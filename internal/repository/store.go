package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// serializationRetries bounds how often a serializable transaction is replayed
const serializationRetries = 3

type store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &store{db: db}
}

func newRepositories(db sqlx.ExtContext) Repositories {
	return Repositories{
		Members:         &memberRepository{db: db},
		Deposits:        &depositRepository{db: db},
		SharePayments:   &sharePaymentRepository{db: db},
		Loans:           &loanRepository{db: db},
		LoanPayments:    &loanPaymentRepository{db: db},
		Penalties:       &penaltyRepository{db: db},
		PenaltyPayments: &penaltyPaymentRepository{db: db},
		Transactions:    &transactionRepository{db: db},
		Fund:            &fundRepository{db: db},
		Distributions:   &distributionRepository{db: db},
		Deadlines:       &deadlineRepository{db: db},
	}
}

func (s *store) Repositories() Repositories {
	return newRepositories(s.db)
}

func (s *store) InTx(ctx context.Context, opts *sql.TxOptions, fn func(Repositories) error) error {
	attempts := 1
	if opts != nil && opts.Isolation == sql.LevelSerializable {
		attempts = serializationRetries
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = s.runTx(ctx, opts, fn)
		if !IsSerializationFailure(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	return err
}

func (s *store) runTx(ctx context.Context, opts *sql.TxOptions, fn func(Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// IsSerializationFailure reports whether err is a postgres serialization or deadlock failure
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// IsUniqueViolation reports whether err is a postgres unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// dateParam formats a calendar date so postgres never shifts it by the session time zone
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
