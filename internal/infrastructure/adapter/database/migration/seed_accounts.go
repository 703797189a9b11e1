package migration

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// SeedAccount describes an account created on first start
type SeedAccount struct {
	ID           uint64
	Login        string
	Name         string
	Role         entity.Role
	Balance      string
	SupervisorID uint64
}

// DefaultSeedAccounts is one admin, one runner and two players the runner supervises
var DefaultSeedAccounts = []SeedAccount{
	{ID: 1, Login: "admin", Name: "Administrator", Role: entity.RoleAdmin, Balance: "0.00"},
	{ID: 2, Login: "runner", Name: "Runner", Role: entity.RoleRunner, Balance: "0.00"},
	{ID: 3, Login: "player1", Name: "Player One", Role: entity.RoleUser, Balance: "100.00", SupervisorID: 2},
	{ID: 4, Login: "player2", Name: "Player Two", Role: entity.RoleUser, Balance: "100.00", SupervisorID: 2},
}

// SeedAccounts creates every missing seed account and returns how many were created
func SeedAccounts(ctx context.Context, repo persistence.AccountRepository, seeds []SeedAccount, timeProvider coreport.TimeProvider) (int, error) {
	created := 0
	for _, seed := range seeds {
		_, err := repo.GetByID(ctx, seed.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrAccountNotFound) {
			return created, err
		}

		account, err := entity.NewAccount(seed.ID, seed.Login, seed.Name, seed.Role, seed.Balance, timeProvider)
		if err != nil {
			return created, err
		}
		if seed.SupervisorID != 0 {
			supervisor := seed.SupervisorID
			account.SupervisorID = &supervisor
		}

		if err := repo.Create(ctx, account); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
