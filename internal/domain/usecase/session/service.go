package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// DefaultStaleAfter is how long an open session may stay idle before the sweep closes it
const DefaultStaleAfter = 30 * time.Minute

// token locations inside an openGame response, by precedence
var tokenPaths = []string{"content.gameRes.sessionId", "content.sessionId"}

// Service manages game sessions
type Service struct {
	api          upstream.GamesAPI
	uow          persistence.UnitOfWork
	staleAfter   time.Duration
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	newID        func() string
}

var _ usecase.SessionUseCase = (*Service)(nil)

// NewService creates a session service
func NewService(
	api upstream.GamesAPI,
	uow persistence.UnitOfWork,
	staleAfter time.Duration,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Service{
		api:          api,
		uow:          uow,
		staleAfter:   staleAfter,
		timeProvider: timeProvider,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// OpenGame closes any active session of the account, records a new one and
// asks the provider to launch the game
func (s *Service) OpenGame(ctx context.Context, req usecase.OpenGameRequest) (*usecase.OpenGameResult, error) {
	if req.AccountID == 0 {
		return nil, errs.ErrInvalidAccountID
	}
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		return nil, errs.NewValidationError("gameId", "must not be empty", errs.ErrInvalidInput)
	}

	var (
		account *entity.Account
		session *entity.GameSession
	)
	err := persistence.RunInTx(ctx, s.uow, func(txCtx context.Context) error {
		locked, err := s.uow.GetAccountRepository(txCtx).LockByIDs(txCtx, req.AccountID)
		if err != nil {
			return err
		}
		account = locked[req.AccountID]
		if account == nil {
			return errs.ErrAccountNotFound
		}

		sessions := s.uow.GetSessionRepository(txCtx)
		active, err := sessions.LockActiveByAccount(txCtx, req.AccountID)
		if err != nil {
			return err
		}
		now := s.timeProvider.Now()
		for _, prev := range active {
			prev.Close(now)
			if err := sessions.Update(txCtx, prev); err != nil {
				return err
			}
		}

		session = &entity.GameSession{
			PublicID:  s.newID(),
			AccountID: req.AccountID,
			GameID:    gameID,
			Status:    entity.SessionOpening,
			BetTotal:  decimal.Zero,
			WinTotal:  decimal.Zero,
			OpenedAt:  now,
			UpdatedAt: now,
		}
		return sessions.Create(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.api.OpenGame(ctx, s.openParams(account, gameID, req))
	if err != nil {
		session.Close(s.timeProvider.Now())
		if uerr := s.uow.GetSessionRepository(ctx).Update(ctx, session); uerr != nil {
			s.logger.Error("Failed to close session after openGame failure", map[string]any{
				"session_id": session.PublicID,
				"error":      uerr.Error(),
			})
		}
		fields := errs.LogFields(err)
		fields["account_id"] = req.AccountID
		fields["game_id"] = gameID
		s.logger.Warn("Provider refused to open game", fields)
		return nil, err
	}

	session.ProviderToken = extractToken(raw)
	session.Status = entity.SessionOpen
	session.UpdatedAt = s.timeProvider.Now()
	if err := s.uow.GetSessionRepository(ctx).Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Game session opened", map[string]any{
		"session_id": session.PublicID,
		"account_id": req.AccountID,
		"game_id":    gameID,
	})

	content := gjson.GetBytes(raw, "content")
	result := &usecase.OpenGameResult{Session: session}
	if content.Exists() {
		result.Content = json.RawMessage(content.Raw)
	}
	return result, nil
}

// CloseSession closes a session explicitly; closing a closed session is a no-op
func (s *Service) CloseSession(ctx context.Context, publicID string) (*entity.GameSession, error) {
	if strings.TrimSpace(publicID) == "" {
		return nil, errs.ErrSessionNotFound
	}

	sessions := s.uow.GetSessionRepository(ctx)
	session, err := sessions.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return session, nil
	}

	session.Close(s.timeProvider.Now())
	if err := sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Game session closed", map[string]any{
		"session_id": session.PublicID,
		"account_id": session.AccountID,
	})
	return session, nil
}

// SweepStale force-closes open or opening sessions idle past the threshold
func (s *Service) SweepStale(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()
	closed, err := s.uow.GetSessionRepository(ctx).CloseStale(ctx, now.Add(-s.staleAfter), now)
	if err != nil {
		s.logger.Error("Stale session sweep failed", errs.LogFields(err))
		return 0, err
	}

	if closed > 0 {
		s.logger.Info("Stale game sessions closed", map[string]any{
			"closed":      closed,
			"stale_after": s.staleAfter.String(),
		})
	}
	return closed, nil
}

// Jackpots passes the provider jackpot feed through
func (s *Service) Jackpots(ctx context.Context) (json.RawMessage, error) {
	return s.api.FetchJackpots(ctx)
}

func (s *Service) openParams(account *entity.Account, gameID string, req usecase.OpenGameRequest) map[string]string {
	params := make(map[string]string, len(req.Params)+3)
	for k, v := range req.Params {
		params[k] = v
	}
	params["login"] = account.Login
	params["gameId"] = gameID
	params["demo"] = "0"
	if req.Demo {
		params["demo"] = "1"
	}
	return params
}

func extractToken(raw json.RawMessage) string {
	for _, path := range tokenPaths {
		if v := gjson.GetBytes(raw, path); v.Exists() {
			if token := strings.TrimSpace(v.String()); token != "" {
				return token
			}
		}
	}
	return ""
}
