package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
)

// Authorize decides whether an actor may move amount on target's balance.
// It is a pure function of its arguments.
func Authorize(role entity.Role, actorID uint64, target *entity.Account) error {
	switch role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleRunner:
		if target.IsSupervisedBy(actorID) {
			return nil
		}
		return fmt.Errorf("%w: runner %d does not supervise account %d", errs.ErrUnauthorized, actorID, target.ID)
	default:
		return fmt.Errorf("%w: role %q may not transfer", errs.ErrUnauthorized, role)
	}
}

// ValidateAmount checks the amount against the role's sign and magnitude rules
func ValidateAmount(role entity.Role, amount decimal.Decimal, limits Limits) error {
	if amount.IsZero() {
		return errs.NewValidationError("amount", "must not be zero", errs.ErrInvalidAmount)
	}
	if !entity.HasMoneyPrecision(amount) {
		return errs.NewValidationError("amount", "must have at most two decimal places", errs.ErrInvalidAmount)
	}
	if !entity.FitsMoneyColumn(amount) {
		return errs.NewValidationError("amount",
			fmt.Sprintf("must have at most %d integer digits", entity.MaxIntegerDigits), errs.ErrInvalidAmount)
	}

	if role != entity.RoleRunner {
		return nil
	}

	if amount.IsNegative() {
		return errs.NewValidationError("amount", "runners may only credit accounts", errs.ErrInvalidAmount)
	}
	if amount.GreaterThan(limits.RunnerPerTransfer) {
		return errs.NewValidationError("amount",
			fmt.Sprintf("must not exceed %s per transfer", entity.FormatMoney(limits.RunnerPerTransfer)),
			errs.ErrInvalidAmount)
	}
	return nil
}
