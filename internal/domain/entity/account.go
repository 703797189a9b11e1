package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// Role determines which ledger operations an account may initiate
type Role string

// Roles
const (
	RoleAdmin  Role = "admin"
	RoleRunner Role = "runner"
	RoleUser   Role = "user"
)

// DefaultCurrency is used when an account is created without an explicit currency
const DefaultCurrency = "USD"

// ParseRole normalizes a role name; unknown names map to RoleUser
func ParseRole(role string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleRunner:
		return RoleRunner
	default:
		return RoleUser
	}
}

// Account represents a wallet holder
type Account struct {
	ID           uint64
	Login        string
	Name         string
	Role         Role
	Balance      decimal.Decimal
	Currency     string
	SupervisorID *uint64 // runner responsible for this account, if any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates an account with the given opening balance
func NewAccount(id uint64, login, name string, role Role, openingBalance string, timeProvider coreport.TimeProvider) (*Account, error) {
	if id == 0 {
		return nil, errs.ErrInvalidAccountID
	}
	if strings.TrimSpace(login) == "" {
		return nil, errs.NewValidationError("login", "must not be empty", errs.ErrInvalidInput)
	}

	balance, err := ParseAmount(openingBalance)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Account{
		ID:        id,
		Login:     strings.TrimSpace(login),
		Name:      name,
		Role:      role,
		Balance:   balance,
		Currency:  DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsSupervisedBy reports whether runnerID is the recorded supervisor of the account
func (a *Account) IsSupervisedBy(runnerID uint64) bool {
	return a.SupervisorID != nil && *a.SupervisorID == runnerID
}

// FormattedBalance returns the balance with exactly two decimal places
func (a *Account) FormattedBalance() string {
	return FormatMoney(a.Balance)
}

// Credit adds a signed amount to the balance, rounding to cents
func (a *Account) Credit(amount decimal.Decimal, timeProvider coreport.TimeProvider) {
	a.Balance = a.Balance.Add(amount).Round(MaxDecimalPlaces)
	a.UpdatedAt = timeProvider.Now()
}

// CanDebit checks whether amount can be withdrawn without going negative
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
