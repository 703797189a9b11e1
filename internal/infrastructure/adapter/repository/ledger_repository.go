package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/model"
)

// LedgerRepository implements persistence.LedgerRepository using GORM
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func ledgerToModel(e *entity.LedgerEntry) *model.LedgerEntry {
	m := &model.LedgerEntry{
		ID:          e.ID,
		ActorID:     e.ActorID,
		RecipientID: e.RecipientID,
		Amount:      e.Amount,
		Kind:        string(e.Kind),
		CreatedAt:   e.CreatedAt,
	}
	if e.Reference != "" {
		ref := e.Reference
		m.Reference = &ref
	}
	return m
}

func ledgerToEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	e := &entity.LedgerEntry{
		ID:          m.ID,
		ActorID:     m.ActorID,
		RecipientID: m.RecipientID,
		Amount:      m.Amount,
		Kind:        entity.LedgerKind(m.Kind),
		CreatedAt:   m.CreatedAt,
	}
	if m.Reference != nil {
		e.Reference = *m.Reference
	}
	return e
}

// Append inserts an entry and assigns its ID
func (r *LedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	m := ledgerToModel(entry)
	if err := r.db.WithContext(ctx).Omit("Recipient").Create(m).Error; err != nil {
		r.logger.Error("Failed to append ledger entry", map[string]any{
			"recipient_id": entry.RecipientID,
			"kind":         entry.Kind,
			"amount":       entity.FormatMoney(entry.Amount),
			"error":        err.Error(),
		})
		return r.errorClassifier.MapError(err, errs.ErrAccountNotFound)
	}

	entry.ID = m.ID
	r.logger.Debug("Ledger entry appended", map[string]any{
		"entry_id":     entry.ID,
		"recipient_id": entry.RecipientID,
		"kind":         entry.Kind,
		"amount":       entity.FormatMoney(entry.Amount),
	})
	return nil
}

// SumCredits sums the positive adjustments an actor made within [Since, Until)
func (r *LedgerRepository) SumCredits(ctx context.Context, filter persistence.CreditSumFilter) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("actor_id = ? AND kind = ? AND amount > 0", filter.ActorID, string(entity.LedgerKindAdjustment)).
		Where("created_at >= ? AND created_at < ?", filter.Since, filter.Until)
	if filter.RecipientID != nil {
		query = query.Where("recipient_id = ?", *filter.RecipientID)
	}

	var sum decimal.Decimal
	if err := query.Row().Scan(&sum); err != nil {
		r.logger.Error("Failed to sum ledger credits", map[string]any{
			"actor_id": filter.ActorID,
			"error":    err.Error(),
		})
		return decimal.Zero, r.errorClassifier.MapError(err, errs.ErrNotFound)
	}
	return sum, nil
}

// ListByRecipient returns the newest entries of an account first
func (r *LedgerRepository) ListByRecipient(ctx context.Context, recipientID uint64, limit int) ([]*entity.LedgerEntry, error) {
	var models []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		r.logger.Error("Failed to list ledger entries", map[string]any{
			"recipient_id": recipientID,
			"error":        err.Error(),
		})
		return nil, r.errorClassifier.MapError(err, errs.ErrNotFound)
	}

	entries := make([]*entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, ledgerToEntity(&models[i]))
	}
	return entries, nil
}

// ReferenceExists reports whether any entry carries the given provider reference
func (r *LedgerRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, r.errorClassifier.MapError(err, errs.ErrNotFound)
	}
	return count > 0, nil
}
