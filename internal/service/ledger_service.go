package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/tontine-ledger/internal/config"
	"github.com/segyhp/tontine-ledger/internal/metrics"
	"github.com/segyhp/tontine-ledger/internal/notify"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/log"

	"github.com/rs/zerolog"
)

// notifyTimeout bounds delivery of one post-commit notification
const notifyTimeout = 3 * time.Second

// serializable is used by the batch operations that read a whole table and write derived rows
var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

type LedgerService struct {
	store    repository.Store
	notifier notify.Notifier
	config   *config.Config
	loc      *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

func NewLedgerService(
	store repository.Store,
	notifier notify.Notifier,
	config *config.Config,
) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
		config:   config,
		loc:      config.GetLocation(),
		logger:   log.WithComponent("ledger"),
		now:      time.Now,
	}
}

// Location returns the time zone calendar dates are computed in
func (s *LedgerService) Location() *time.Location {
	return s.loc
}

// finish counts the outcome of an operation and makes sure every error leaving the service is a BusinessError
func (s *LedgerService) finish(operation string, err error) error {
	metrics.ObserveOperation(operation, err)
	if err == nil {
		return nil
	}

	var be *customError.BusinessError
	if !errors.As(err, &be) {
		be = customError.WrapDatabaseError(err)
	}

	if be.Kind == customError.KindInfrastructure {
		s.logger.Error().Err(err).Str("operation", operation).Msg("ledger operation failed")
	}
	return be
}

// lookupError maps a repository lookup failure to NotFound or a database error
func lookupError(entity string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.WrapDatabaseError(err)
}

// notifyMember sends a best-effort message to a member after the ledger change committed
func (s *LedgerService) notifyMember(ctx context.Context, memberID int64, subject, body string) {
	if s.notifier == nil {
		return
	}

	// the request may finish or be cancelled while we deliver
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	user, err := s.store.Repositories().Members.GetUser(ctx, memberID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("member_id", memberID).Msg("notification recipient lookup failed")
		metrics.NotificationFailures.Inc()
		return
	}
	if user.Email == "" {
		return
	}

	msg := notify.Message{Recipient: user.Email, Subject: subject, Body: body, SentAt: s.now()}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Int64("member_id", memberID).Str("subject", subject).Msg("notification failed")
		metrics.NotificationFailures.Inc()
	}
}
