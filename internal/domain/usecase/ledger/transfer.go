package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// Transfer moves amount onto the target's balance and appends one adjustment entry.
// Validation and role checks happen before the transaction; ownership, caps, the
// balance update and the audit entry all run under row locks in one transaction.
func (s *Service) Transfer(ctx context.Context, req usecase.TransferRequest) (*usecase.TransferResult, error) {
	if req.TargetID == 0 {
		return nil, errs.NewValidationError("account", "target account is required", errs.ErrInvalidAccountID)
	}
	if req.ActorRole != entity.RoleAdmin && req.ActorRole != entity.RoleRunner {
		return nil, Authorize(req.ActorRole, req.ActorID, &entity.Account{ID: req.TargetID})
	}

	amount, err := entity.ParseAmount(req.Amount)
	if err != nil {
		return nil, errs.NewValidationError("amount", "must be a decimal with at most two fraction digits", err)
	}
	if err := ValidateAmount(req.ActorRole, amount, s.limits); err != nil {
		return nil, err
	}

	var result *usecase.TransferResult
	err = persistence.RunInTx(ctx, s.uow, func(txCtx context.Context) error {
		r, err := s.transferInTx(txCtx, req, amount)
		result = r
		return err
	})
	if err != nil {
		s.logFailure(req, err)
		return nil, err
	}

	s.logger.Info("Balance transfer committed", map[string]any{
		"actor_id":    req.ActorID,
		"actor_role":  string(req.ActorRole),
		"account_id":  req.TargetID,
		"amount":      result.Amount,
		"new_balance": result.NewBalance,
	})

	return result, nil
}

func (s *Service) transferInTx(ctx context.Context, req usecase.TransferRequest, amount decimal.Decimal) (*usecase.TransferResult, error) {
	accounts := s.uow.GetAccountRepository(ctx)

	// The actor's own row is locked with the target so its stored role is checked
	// in the same transaction and concurrent transfers by one runner serialize
	// around the daily sums.
	ids := []uint64{req.TargetID}
	if req.ActorID != req.TargetID {
		ids = append(ids, req.ActorID)
	}

	locked, err := accounts.LockByIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}
	target, ok := locked[req.TargetID]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}

	if actor, ok := locked[req.ActorID]; !ok || actor.Role != req.ActorRole {
		return nil, fmt.Errorf("%w: account %d does not hold role %q", errs.ErrUnauthorized, req.ActorID, req.ActorRole)
	}
	if err := Authorize(req.ActorRole, req.ActorID, target); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	if req.ActorRole == entity.RoleRunner {
		if err := s.checkDailyCaps(ctx, req.ActorID, target.ID, amount, now); err != nil {
			return nil, err
		}
	}

	if !entity.FitsMoneyColumn(target.Balance.Add(amount)) {
		return nil, errs.NewValidationError("amount", "resulting balance is out of range", errs.ErrInvalidAmount)
	}
	target.Credit(amount, s.timeProvider)
	if err := accounts.UpdateBalance(ctx, target); err != nil {
		return nil, err
	}

	entry := entity.NewAdjustment(req.ActorID, target.ID, amount, now)
	if err := s.uow.GetLedgerRepository(ctx).Append(ctx, entry); err != nil {
		return nil, err
	}

	return &usecase.TransferResult{
		AccountID:  target.ID,
		NewBalance: target.FormattedBalance(),
		Amount:     entity.FormatMoney(amount),
		At:         now,
	}, nil
}

// checkDailyCaps enforces both runner caps over the current server-local calendar day
func (s *Service) checkDailyCaps(ctx context.Context, runnerID, targetID uint64, amount decimal.Decimal, now time.Time) error {
	ledger := s.uow.GetLedgerRepository(ctx)
	dayStart := core.StartOfDay(now, s.limits.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	toRecipient, err := ledger.SumCredits(ctx, persistence.CreditSumFilter{
		ActorID:     runnerID,
		RecipientID: &targetID,
		Since:       dayStart,
		Until:       dayEnd,
	})
	if err != nil {
		return err
	}
	if toRecipient.Add(amount).GreaterThan(s.limits.PerRecipientDaily) {
		return errs.NewQuotaExceededError(CapPerRecipientDaily, runnerID, targetID,
			entity.FormatMoney(s.limits.PerRecipientDaily), entity.FormatMoney(toRecipient), entity.FormatMoney(amount))
	}

	total, err := ledger.SumCredits(ctx, persistence.CreditSumFilter{
		ActorID: runnerID,
		Since:   dayStart,
		Until:   dayEnd,
	})
	if err != nil {
		return err
	}
	if total.Add(amount).GreaterThan(s.limits.RunnerDailyTotal) {
		return errs.NewQuotaExceededError(CapRunnerDaily, runnerID, targetID,
			entity.FormatMoney(s.limits.RunnerDailyTotal), entity.FormatMoney(total), entity.FormatMoney(amount))
	}

	return nil
}

func (s *Service) logFailure(req usecase.TransferRequest, err error) {
	fields := errs.LogFields(err)
	fields["actor_id"] = req.ActorID
	fields["actor_role"] = string(req.ActorRole)
	fields["account_id"] = req.TargetID
	fields["amount"] = req.Amount

	switch {
	case errors.Is(err, errs.ErrQuotaExceeded), errors.Is(err, errs.ErrUnauthorized), errs.IsNotFoundError(err):
		s.logger.Warn("Balance transfer rejected", fields)
	case errs.IsConflictError(err):
		s.logger.Warn("Balance transfer conflicted with a concurrent update", fields)
	default:
		s.logger.Error("Balance transfer failed", fields)
	}
}
