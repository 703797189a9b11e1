package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/mocks/port/core"
	"github.com/amirhossein-jamali/game-portal/mocks/port/persistence"
)

const secret = "s3cret"

var callbackTime = time.Date(2024, 9, 1, 18, 0, 0, 0, time.UTC)

type walletFixture struct {
	uow      *persistence.MockUnitOfWork
	accounts *persistence.MockAccountRepository
	ledger   *persistence.MockLedgerRepository
	sessions *persistence.MockSessionRepository
	service  *Service
}

func newWalletFixture(t *testing.T) *walletFixture {
	f := &walletFixture{
		uow:      new(persistence.MockUnitOfWork),
		accounts: new(persistence.MockAccountRepository),
		ledger:   new(persistence.MockLedgerRepository),
		sessions: new(persistence.MockSessionRepository),
	}
	f.uow.On("GetAccountRepository", mock.Anything).Return(f.accounts).Maybe()
	f.uow.On("GetLedgerRepository", mock.Anything).Return(f.ledger).Maybe()
	f.uow.On("GetSessionRepository", mock.Anything).Return(f.sessions).Maybe()
	f.service = NewService(f.uow, NewAuthenticator(secret, false), core.FixedTimeProvider{At: callbackTime}, core.NewPermissiveLogger())

	t.Cleanup(func() {
		f.uow.AssertExpectations(t)
		f.accounts.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.sessions.AssertExpectations(t)
	})
	return f
}

func (f *walletFixture) expectTx(ctx context.Context, commit bool) {
	f.uow.On("Begin", ctx).Return(ctx, nil).Once()
	if commit {
		f.uow.On("Commit", ctx).Return(nil).Once()
	} else {
		f.uow.On("Rollback", ctx).Return(nil).Once()
	}
}

func bet(fields map[string]string) map[string]string {
	out := map[string]string{"cmd": "writeBet", "login": "p1", "key": secret, "sessionId": "tok", "gameId": "g1", "tradeId": "tr-1"}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func player() *entity.Account {
	return &entity.Account{ID: 5, Login: "p1", Balance: entity.MustMoney("100.00"), Currency: "USD"}
}

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("should return balance for signed request", func(t *testing.T) {
		f := newWalletFixture(t)
		fields := map[string]string{"cmd": "getBalance", "login": "p1"}
		fields["sign"] = Sign(fields, secret)
		f.accounts.On("GetByLogin", ctx, "p1").Return(player(), nil)

		resp := f.service.Handle(ctx, fields)

		assert.Equal(t, usecase.WalletResponse{Status: "success", Error: "", Login: "p1", Balance: "100.00", Currency: "USD"}, resp)
	})

	t.Run("should fail auth without touching storage", func(t *testing.T) {
		f := newWalletFixture(t)

		resp := f.service.Handle(ctx, map[string]string{"cmd": "getBalance", "login": "p1", "key": "wrong"})

		assert.Equal(t, usecase.WalletStatusFail, resp.Status)
		assert.Equal(t, usecase.WalletErrAuth, resp.Error)
		f.accounts.AssertNotCalled(t, "GetByLogin", mock.Anything, mock.Anything)
	})

	t.Run("should report unknown user", func(t *testing.T) {
		f := newWalletFixture(t)
		f.accounts.On("GetByLogin", ctx, "ghost").Return(nil, errs.ErrAccountNotFound)

		resp := f.service.Handle(ctx, map[string]string{"cmd": "getBalance", "login": "ghost", "key": secret})

		assert.Equal(t, usecase.WalletErrUser, resp.Error)
	})

	t.Run("should reject unknown commands", func(t *testing.T) {
		f := newWalletFixture(t)

		resp := f.service.Handle(ctx, map[string]string{"cmd": "refund", "login": "p1", "key": secret})

		assert.Equal(t, usecase.WalletErrUnknownCmd, resp.Error)
	})
}

func TestService_WriteBet(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply win minus bet and book both legs", func(t *testing.T) {
		f := newWalletFixture(t)
		account := player()
		session := &entity.GameSession{ID: 1, AccountID: 5, Status: entity.SessionOpen}

		f.expectTx(ctx, true)
		f.accounts.On("LockByLogin", ctx, "p1").Return(account, nil)
		f.ledger.On("ReferenceExists", ctx, "tr-1").Return(false, nil)
		f.sessions.On("LockByProviderToken", ctx, "tok").Return(session, nil)
		f.accounts.On("UpdateBalance", ctx, account).Return(nil)
		f.ledger.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
			return e.Kind == entity.LedgerKindBet && e.Amount.Equal(entity.MustMoney("-10.00")) && e.ActorID == nil && e.Reference == "tr-1"
		})).Return(nil).Once()
		f.ledger.On("Append", ctx, mock.MatchedBy(func(e *entity.LedgerEntry) bool {
			return e.Kind == entity.LedgerKindWin && e.Amount.Equal(entity.MustMoney("25.50"))
		})).Return(nil).Once()
		f.sessions.On("Update", ctx, session).Return(nil)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "10.00", "win": "25.50"}))

		assert.Equal(t, usecase.WalletStatusSuccess, resp.Status)
		assert.Equal(t, "115.50", resp.Balance)
		assert.Equal(t, "10.00", entity.FormatMoney(session.BetTotal))
		assert.Equal(t, "25.50", entity.FormatMoney(session.WinTotal))
	})

	t.Run("should reject bets above balance", func(t *testing.T) {
		f := newWalletFixture(t)
		account := player()

		f.expectTx(ctx, false)
		f.accounts.On("LockByLogin", ctx, "p1").Return(account, nil)
		f.ledger.On("ReferenceExists", ctx, "tr-1").Return(false, nil)
		f.sessions.On("LockByProviderToken", ctx, "tok").Return(&entity.GameSession{AccountID: 5, Status: entity.SessionOpen}, nil)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "100.01"}))

		assert.Equal(t, usecase.WalletErrBalance, resp.Error)
		assert.Equal(t, "100.00", account.FormattedBalance())
		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("should answer duplicate trades idempotently", func(t *testing.T) {
		f := newWalletFixture(t)

		f.expectTx(ctx, true)
		f.accounts.On("LockByLogin", ctx, "p1").Return(player(), nil)
		f.ledger.On("ReferenceExists", ctx, "tr-1").Return(true, nil)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "5.00"}))

		assert.Equal(t, usecase.WalletStatusSuccess, resp.Status)
		assert.Equal(t, "100.00", resp.Balance)
		f.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything)
	})

	t.Run("should reject session of another account", func(t *testing.T) {
		f := newWalletFixture(t)

		f.expectTx(ctx, false)
		f.accounts.On("LockByLogin", ctx, "p1").Return(player(), nil)
		f.ledger.On("ReferenceExists", ctx, "tr-1").Return(false, nil)
		f.sessions.On("LockByProviderToken", ctx, "tok").Return(&entity.GameSession{AccountID: 6, Status: entity.SessionOpen}, nil)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "1.00"}))

		assert.Equal(t, usecase.WalletErrSession, resp.Error)
	})

	t.Run("should reject new bets on closed sessions", func(t *testing.T) {
		f := newWalletFixture(t)

		f.expectTx(ctx, false)
		f.accounts.On("LockByLogin", ctx, "p1").Return(player(), nil)
		f.ledger.On("ReferenceExists", ctx, "tr-1").Return(false, nil)
		f.sessions.On("LockByProviderToken", ctx, "tok").Return(&entity.GameSession{AccountID: 5, Status: entity.SessionClosed}, nil)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "1.00"}))

		assert.Equal(t, usecase.WalletErrSession, resp.Error)
	})

	t.Run("should validate legs before opening a transaction", func(t *testing.T) {
		testCases := map[string]map[string]string{
			"negative bet":    {"bet": "-1.00"},
			"malformed win":   {"win": "abc"},
			"three decimals":  {"bet": "1.001"},
			"missing session": {"sessionId": ""},
		}

		for name, fields := range testCases {
			t.Run(name, func(t *testing.T) {
				f := newWalletFixture(t)

				resp := f.service.Handle(ctx, bet(fields))

				assert.Equal(t, usecase.WalletErrBadRequest, resp.Error)
				f.uow.AssertNotCalled(t, "Begin", mock.Anything)
			})
		}
	})

	t.Run("should map storage failures to internal error", func(t *testing.T) {
		f := newWalletFixture(t)

		f.expectTx(ctx, false)
		f.accounts.On("LockByLogin", ctx, "p1").Return(nil, errs.ErrDatabaseConnection)

		resp := f.service.Handle(ctx, bet(map[string]string{"bet": "1.00"}))

		assert.Equal(t, usecase.WalletErrInternal, resp.Error)
	})
}
