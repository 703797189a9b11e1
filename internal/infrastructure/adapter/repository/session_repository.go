package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/model"
)

var activeStatuses = []string{string(entity.SessionOpen), string(entity.SessionOpening)}

// SessionRepository implements persistence.SessionRepository using GORM
type SessionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *gorm.DB, logger coreport.Logger) *SessionRepository {
	return &SessionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func sessionToModel(s *entity.GameSession) *model.GameSession {
	m := &model.GameSession{
		ID:        s.ID,
		PublicID:  s.PublicID,
		AccountID: s.AccountID,
		GameID:    s.GameID,
		Status:    string(s.Status),
		BetTotal:  s.BetTotal,
		WinTotal:  s.WinTotal,
		OpenedAt:  s.OpenedAt,
		ClosedAt:  s.ClosedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.ProviderToken != "" {
		token := s.ProviderToken
		m.ProviderToken = &token
	}
	return m
}

func sessionToEntity(m *model.GameSession) *entity.GameSession {
	s := &entity.GameSession{
		ID:        m.ID,
		PublicID:  m.PublicID,
		AccountID: m.AccountID,
		GameID:    m.GameID,
		Status:    entity.SessionStatus(m.Status),
		BetTotal:  m.BetTotal,
		WinTotal:  m.WinTotal,
		OpenedAt:  m.OpenedAt,
		ClosedAt:  m.ClosedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.ProviderToken != nil {
		s.ProviderToken = *m.ProviderToken
	}
	return s
}

// Create stores a new session. A second active session for the same account
// trips the partial unique index and is reported as a conflict.
func (r *SessionRepository) Create(ctx context.Context, session *entity.GameSession) error {
	m := sessionToModel(session)
	if err := r.db.WithContext(ctx).Omit("Account").Create(m).Error; err != nil {
		if r.errorClassifier.IsDuplicateKeyError(err) {
			r.logger.Warn("Account already has an active game session", map[string]any{
				"account_id": session.AccountID,
			})
			return fmt.Errorf("%w: account %d already has an active session", errs.ErrConflict, session.AccountID)
		}
		r.logger.Error("Failed to create game session", map[string]any{
			"account_id": session.AccountID,
			"error":      err.Error(),
		})
		return r.errorClassifier.MapError(err, errs.ErrAccountNotFound)
	}

	session.ID = m.ID
	return nil
}

// Update persists the mutable fields of a session
func (r *SessionRepository) Update(ctx context.Context, session *entity.GameSession) error {
	m := sessionToModel(session)
	result := r.db.WithContext(ctx).Model(&model.GameSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"provider_token": m.ProviderToken,
			"status":         m.Status,
			"bet_total":      m.BetTotal,
			"win_total":      m.WinTotal,
			"closed_at":      m.ClosedAt,
			"updated_at":     m.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update game session", map[string]any{
			"session_id": session.PublicID,
			"error":      result.Error.Error(),
		})
		return r.errorClassifier.MapError(result.Error, errs.ErrSessionNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrSessionNotFound
	}
	return nil
}

// GetByPublicID retrieves a session by its public identifier
func (r *SessionRepository) GetByPublicID(ctx context.Context, publicID string) (*entity.GameSession, error) {
	var m model.GameSession
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&m).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrSessionNotFound)
	}
	return sessionToEntity(&m), nil
}

// LockByProviderToken locks the session the provider refers to
func (r *SessionRepository) LockByProviderToken(ctx context.Context, token string) (*entity.GameSession, error) {
	var m model.GameSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_token = ?", token).
		First(&m).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrSessionNotFound)
	}
	return sessionToEntity(&m), nil
}

// LockActiveByAccount locks every open or opening session of an account
func (r *SessionRepository) LockActiveByAccount(ctx context.Context, accountID uint64) ([]*entity.GameSession, error) {
	var models []model.GameSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND status IN ?", accountID, activeStatuses).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrSessionNotFound)
	}

	sessions := make([]*entity.GameSession, 0, len(models))
	for i := range models {
		sessions = append(sessions, sessionToEntity(&models[i]))
	}
	return sessions, nil
}

// CloseStale closes active sessions that have not been touched since before
func (r *SessionRepository) CloseStale(ctx context.Context, before, closedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.GameSession{}).
		Where("status IN ? AND updated_at < ?", activeStatuses, before).
		Updates(map[string]interface{}{
			"status":     string(entity.SessionClosed),
			"closed_at":  closedAt,
			"updated_at": closedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to close stale game sessions", map[string]any{
			"before": before,
			"error":  result.Error.Error(),
		})
		return 0, r.errorClassifier.MapError(result.Error, errs.ErrSessionNotFound)
	}
	return result.RowsAffected, nil
}
