package service

import (
	"context"
	"fmt"

	"github.com/segyhp/tontine-ledger/internal/domain"
	"github.com/segyhp/tontine-ledger/internal/repository"
	customError "github.com/segyhp/tontine-ledger/pkg/errors"
	"github.com/segyhp/tontine-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

// CreateMember registers a user together with their ledger profile
func (s *LedgerService) CreateMember(ctx context.Context, request *domain.CreateMemberRequest) (*domain.MemberResponse, error) {
	if request.CommittedShares < 0 {
		return nil, s.finish("create_member", customError.WrapValidation("Committed shares cannot be negative"))
	}
	if request.ShareValue.IsNegative() {
		return nil, s.finish("create_member", customError.WrapValidation("Share value cannot be negative"))
	}

	userType := request.UserType
	if userType == "" {
		userType = domain.UserTypeMember
	}
	if userType != domain.UserTypeMember && userType != domain.UserTypeCoordinator {
		return nil, s.finish("create_member", customError.WrapValidation(fmt.Sprintf("Unknown user type %s", userType)))
	}

	shareValue := request.ShareValue
	if shareValue.IsZero() {
		shareValue = s.config.GetShareValue()
	}

	user := &domain.User{
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Phone:     request.Phone,
		IsActive:  true,
	}
	member := &domain.Member{
		UserType:        userType,
		CoordinatorID:   request.CoordinatorID,
		CommittedShares: request.CommittedShares,
		ShareValue:      utils.Quantize(shareValue),
		TotalSavings:    decimal.Zero,
	}
	member.Recompute()

	err := s.store.InTx(ctx, nil, func(repos repository.Repositories) error {
		if request.CoordinatorID != nil {
			if _, err := repos.Members.GetByID(ctx, *request.CoordinatorID); err != nil {
				return lookupError("Coordinator", *request.CoordinatorID, err)
			}
		}

		if err := repos.Members.CreateUser(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return customError.WrapDuplicateUsername(user.Username)
			}
			return customError.WrapDatabaseError(err)
		}

		member.ID = user.ID
		if err := repos.Members.Create(ctx, member); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish("create_member", err)
	}

	s.notifyMember(ctx, member.ID, "Welcome to the tontine",
		fmt.Sprintf("You committed to %d shares of %s each.", member.CommittedShares, member.ShareValue.StringFixed(2)))

	return &domain.MemberResponse{User: user, Member: member}, s.finish("create_member", nil)
}

// GetMember returns a member's identity and ledger profile
func (s *LedgerService) GetMember(ctx context.Context, memberID int64) (*domain.MemberResponse, error) {
	repos := s.store.Repositories()

	member, err := repos.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, lookupError("Member", memberID, err)
	}

	user, err := repos.Members.GetUser(ctx, memberID)
	if err != nil {
		return nil, lookupError("Member", memberID, err)
	}

	return &domain.MemberResponse{User: user, Member: member}, nil
}

// ListMemberTransactions returns the latest ledger entries of a member
func (s *LedgerService) ListMemberTransactions(ctx context.Context, memberID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repos := s.store.Repositories()
	if _, err := repos.Members.GetByID(ctx, memberID); err != nil {
		return nil, lookupError("Member", memberID, err)
	}

	txns, err := repos.Transactions.ListByMember(ctx, memberID, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return txns, nil
}
