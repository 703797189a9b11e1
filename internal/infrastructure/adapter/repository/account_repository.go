package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/model"
)

// AccountRepository implements persistence.AccountRepository using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func accountToEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Login:        m.Login,
		Name:         m.Name,
		Role:         entity.ParseRole(m.Role),
		Balance:      m.Balance,
		Currency:     m.Currency,
		SupervisorID: m.SupervisorID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func accountToModel(a *entity.Account) *model.Account {
	currency := a.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	return &model.Account{
		ID:           a.ID,
		Login:        a.Login,
		Name:         a.Name,
		Role:         string(a.Role),
		Balance:      a.Balance,
		Currency:     currency,
		SupervisorID: a.SupervisorID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// handleDatabaseError logs and maps a storage error for the given account
func (r *AccountRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorClassifier.MapError(err, errs.ErrAccountNotFound)
	if mapped == errs.ErrAccountNotFound {
		r.logger.Warn("Account not found", fields)
		return mapped
	}

	fields["operation"] = operation
	fields["error"] = err.Error()
	r.logger.Error("Database error on accounts", fields)
	return mapped
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("get by id", err, map[string]any{"account_id": id})
	}
	return accountToEntity(&m), nil
}

// GetByLogin retrieves an account by login
func (r *AccountRepository) GetByLogin(ctx context.Context, login string) (*entity.Account, error) {
	var m model.Account
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("get by login", err, map[string]any{"login": login})
	}
	return accountToEntity(&m), nil
}

// LockByIDs locks the rows in ascending ID order so concurrent callers cannot deadlock
func (r *AccountRepository) LockByIDs(ctx context.Context, ids ...uint64) (map[uint64]*entity.Account, error) {
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	var models []model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", unique).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("lock by ids", err, map[string]any{"account_ids": unique})
	}

	if len(models) != len(unique) {
		r.logger.Debug("Not every requested account exists", map[string]any{
			"account_ids": unique,
			"found":       len(models),
		})
	}

	accounts := make(map[uint64]*entity.Account, len(models))
	for i := range models {
		accounts[models[i].ID] = accountToEntity(&models[i])
	}
	return accounts, nil
}

// LockByLogin locks the account with the given login
func (r *AccountRepository) LockByLogin(ctx context.Context, login string) (*entity.Account, error) {
	var m model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("login = ?", login).
		First(&m).Error
	if err != nil {
		return nil, r.handleDatabaseError("lock by login", err, map[string]any{"login": login})
	}
	return accountToEntity(&m), nil
}

// Create stores a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	m := accountToModel(account)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{
			"account_id": account.ID,
			"login":      account.Login,
		})
	}

	r.logger.Info("Account created", map[string]any{
		"account_id": account.ID,
		"login":      account.Login,
		"role":       account.Role,
	})
	return nil
}

// UpdateBalance persists the balance and updated_at of an account
func (r *AccountRepository) UpdateBalance(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"balance":    account.Balance,
			"updated_at": account.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("update balance", result.Error, map[string]any{"account_id": account.ID})
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("Account not found during balance update", map[string]any{
			"account_id": account.ID,
		})
		return errs.ErrAccountNotFound
	}

	r.logger.Debug("Account balance updated", map[string]any{
		"account_id": account.ID,
		"balance":    account.FormattedBalance(),
	})
	return nil
}
