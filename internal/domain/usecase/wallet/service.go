package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// Service answers provider wallet callbacks
type Service struct {
	uow          persistence.UnitOfWork
	auth         *Authenticator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ usecase.WalletUseCase = (*Service)(nil)

// NewService creates a wallet callback service
func NewService(
	uow persistence.UnitOfWork,
	auth *Authenticator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		auth:         auth,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// betRequest is a validated writeBet callback
type betRequest struct {
	login     string
	bet       decimal.Decimal
	win       decimal.Decimal
	sessionID string
	gameID    string
	tradeID   string
}

// Handle dispatches one callback. Business failures are reported in the body,
// never as an error.
func (s *Service) Handle(ctx context.Context, fields map[string]string) usecase.WalletResponse {
	cmd := fields["cmd"]
	login := strings.TrimSpace(fields["login"])

	if !s.auth.Verify(fields) {
		s.logger.Warn("Wallet callback failed authentication", map[string]any{"cmd": cmd, "login": login})
		return fail(usecase.WalletErrAuth)
	}
	if login == "" {
		return fail(usecase.WalletErrBadRequest)
	}

	var (
		account *entity.Account
		err     error
	)
	switch cmd {
	case usecase.WalletCmdGetBalance:
		account, err = s.uow.GetAccountRepository(ctx).GetByLogin(ctx, login)
	case usecase.WalletCmdWriteBet:
		var req *betRequest
		req, err = parseBet(login, fields)
		if err == nil {
			account, err = s.writeBet(ctx, req)
		}
	default:
		return fail(usecase.WalletErrUnknownCmd)
	}

	if err != nil {
		code := errorCode(err)
		logFields := errs.LogFields(err)
		logFields["cmd"] = cmd
		logFields["login"] = login
		logFields["wallet_error"] = code
		if code == usecase.WalletErrInternal {
			s.logger.Error("Wallet callback failed", logFields)
		} else {
			s.logger.Warn("Wallet callback rejected", logFields)
		}
		return fail(code)
	}

	return usecase.WalletResponse{
		Status:   usecase.WalletStatusSuccess,
		Error:    "",
		Login:    account.Login,
		Balance:  account.FormattedBalance(),
		Currency: account.Currency,
	}
}

// writeBet applies win-bet to the balance with one ledger entry per leg.
// A repeated trade id returns the current balance without booking twice.
func (s *Service) writeBet(ctx context.Context, req *betRequest) (*entity.Account, error) {
	var account *entity.Account
	err := persistence.RunInTx(ctx, s.uow, func(txCtx context.Context) error {
		var err error
		account, err = s.uow.GetAccountRepository(txCtx).LockByLogin(txCtx, req.login)
		if err != nil {
			return err
		}

		ledger := s.uow.GetLedgerRepository(txCtx)
		if req.tradeID != "" {
			booked, err := ledger.ReferenceExists(txCtx, req.tradeID)
			if err != nil {
				return err
			}
			if booked {
				s.logger.Info("Duplicate wallet trade ignored", map[string]any{
					"trade_id": req.tradeID,
					"login":    req.login,
				})
				return nil
			}
		}

		sessions := s.uow.GetSessionRepository(txCtx)
		session, err := sessions.LockByProviderToken(txCtx, req.sessionID)
		if err != nil {
			return err
		}
		if session.AccountID != account.ID || (!session.IsActive() && req.bet.IsPositive()) {
			return errs.ErrSessionNotFound
		}

		if !account.CanDebit(req.bet) {
			return errs.ErrInsufficientBalance
		}

		now := s.timeProvider.Now()
		account.Credit(req.win.Sub(req.bet), s.timeProvider)
		if err := s.uow.GetAccountRepository(txCtx).UpdateBalance(txCtx, account); err != nil {
			return err
		}

		if req.bet.IsPositive() {
			if err := ledger.Append(txCtx, entity.NewSystemEntry(account.ID, req.bet.Neg(), entity.LedgerKindBet, req.tradeID, now)); err != nil {
				return err
			}
		}
		if req.win.IsPositive() {
			if err := ledger.Append(txCtx, entity.NewSystemEntry(account.ID, req.win, entity.LedgerKindWin, req.tradeID, now)); err != nil {
				return err
			}
		}

		session.RecordRound(req.bet, req.win, now)
		return sessions.Update(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Wallet bet written", map[string]any{
		"login":      req.login,
		"bet":        entity.FormatMoney(req.bet),
		"win":        entity.FormatMoney(req.win),
		"game_id":    req.gameID,
		"trade_id":   req.tradeID,
		"session_id": req.sessionID,
		"balance":    account.FormattedBalance(),
	})
	return account, nil
}

func parseBet(login string, fields map[string]string) (*betRequest, error) {
	req := &betRequest{
		login:     login,
		sessionID: strings.TrimSpace(fields["sessionId"]),
		gameID:    strings.TrimSpace(fields["gameId"]),
		tradeID:   strings.TrimSpace(fields["tradeId"]),
	}
	if req.sessionID == "" {
		return nil, errs.NewValidationError("sessionId", "must not be empty", errs.ErrInvalidInput)
	}

	var err error
	if req.bet, err = parseLeg(fields["bet"]); err != nil {
		return nil, errs.NewValidationError("bet", err.Error(), err)
	}
	if req.win, err = parseLeg(fields["win"]); err != nil {
		return nil, errs.NewValidationError("win", err.Error(), err)
	}
	return req, nil
}

// parseLeg reads a non-negative amount; a missing leg counts as zero
func parseLeg(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := entity.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errs.ErrInvalidAmount
	}
	return d, nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return usecase.WalletErrAuth
	case errors.Is(err, errs.ErrAccountNotFound):
		return usecase.WalletErrUser
	case errors.Is(err, errs.ErrSessionNotFound):
		return usecase.WalletErrSession
	case errors.Is(err, errs.ErrInsufficientBalance):
		return usecase.WalletErrBalance
	case errors.Is(err, errs.ErrInvalidInput):
		return usecase.WalletErrBadRequest
	default:
		return usecase.WalletErrInternal
	}
}

func fail(code string) usecase.WalletResponse {
	return usecase.WalletResponse{Status: usecase.WalletStatusFail, Error: code}
}
