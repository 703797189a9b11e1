package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
)

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("should format balance with two decimals", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.accounts.On("GetByID", ctx, uint64(3)).
			Return(&entity.Account{ID: 3, Balance: entity.MustMoney("12.5"), Currency: "EUR"}, nil)

		balance, err := f.service.GetBalance(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "12.50", balance.Balance)
		assert.Equal(t, "EUR", balance.Currency)
	})

	t.Run("should reject zero id", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.GetBalance(ctx, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidAccountID)
	})

	t.Run("should propagate not found", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.accounts.On("GetByID", ctx, uint64(4)).Return(nil, errs.ErrAccountNotFound)

		_, err := f.service.GetBalance(ctx, 4)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_ListLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("should clamp the limit", func(t *testing.T) {
		f := newLedgerFixture(t)
		entries := []*entity.LedgerEntry{{ID: 2}, {ID: 1}}
		f.accounts.On("GetByID", ctx, uint64(3)).Return(&entity.Account{ID: 3}, nil)
		f.ledger.On("ListByRecipient", ctx, uint64(3), MaxHistoryLimit).Return(entries, nil)

		got, err := f.service.ListLedger(ctx, 3, 10000)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("should use default limit", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.accounts.On("GetByID", ctx, uint64(3)).Return(&entity.Account{ID: 3}, nil)
		f.ledger.On("ListByRecipient", ctx, uint64(3), DefaultHistoryLimit).Return([]*entity.LedgerEntry{}, nil)

		_, err := f.service.ListLedger(ctx, 3, 0)

		require.NoError(t, err)
	})

	t.Run("should not query ledger of unknown account", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.accounts.On("GetByID", ctx, uint64(5)).Return(nil, errs.ErrAccountNotFound)

		_, err := f.service.ListLedger(ctx, 5, 10)

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		f.ledger.AssertNotCalled(t, "ListByRecipient", mock.Anything, mock.Anything, mock.Anything)
	})
}
