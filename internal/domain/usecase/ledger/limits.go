package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// Cap names reported in quota errors
const (
	CapPerRecipientDaily = "per-recipient daily cap"
	CapRunnerDaily       = "runner daily cap"
)

// Limits configures runner transfer caps
type Limits struct {
	RunnerPerTransfer decimal.Decimal
	PerRecipientDaily decimal.Decimal
	RunnerDailyTotal  decimal.Decimal
	Location          *time.Location // server timezone defining the calendar day
}

// DefaultLimits returns the reference caps
func DefaultLimits() Limits {
	return Limits{
		RunnerPerTransfer: entity.MustMoney("500.00"),
		PerRecipientDaily: entity.MustMoney("1000.00"),
		RunnerDailyTotal:  entity.MustMoney("1000.00"),
		Location:          time.Local,
	}
}
