package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/model"
)

// findChunkSize bounds the number of bind parameters per IN query
const findChunkSize = 500

// CatalogRepository implements persistence.CatalogRepository using GORM
type CatalogRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCatalogRepository creates a new CatalogRepository instance
func NewCatalogRepository(db *gorm.DB, logger coreport.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func catalogToEntity(m *model.GameCatalog) *entity.GameCatalogEntry {
	return &entity.GameCatalogEntry{
		ID:          m.ID,
		Name:        m.Name,
		Provider:    m.Provider,
		Device:      m.Device,
		Categories:  m.Categories,
		Thumbnail:   m.Thumbnail,
		Demo:        m.Demo,
		Bookmark:    m.Bookmark,
		RewriteRule: m.RewriteRule,
		ExitButton:  m.ExitButton,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func catalogToModel(e *entity.GameCatalogEntry) *model.GameCatalog {
	return &model.GameCatalog{
		ID:          e.ID,
		Name:        e.Name,
		Provider:    e.Provider,
		Device:      e.Device,
		Categories:  e.Categories,
		Thumbnail:   e.Thumbnail,
		Demo:        e.Demo,
		Bookmark:    e.Bookmark,
		RewriteRule: e.RewriteRule,
		ExitButton:  e.ExitButton,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FindByIDs loads the stored entries for ids in bounded chunks
func (r *CatalogRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.GameCatalogEntry, error) {
	found := make(map[string]*entity.GameCatalogEntry, len(ids))
	for start := 0; start < len(ids); start += findChunkSize {
		end := start + findChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		var models []model.GameCatalog
		if err := r.db.WithContext(ctx).Where("id IN ?", ids[start:end]).Find(&models).Error; err != nil {
			r.logger.Error("Failed to load catalog entries", map[string]any{
				"chunk_start": start,
				"error":       err.Error(),
			})
			return nil, r.errorClassifier.MapError(err, errs.ErrNotFound)
		}
		for i := range models {
			found[models[i].ID] = catalogToEntity(&models[i])
		}
	}
	return found, nil
}

// Insert stores a new entry
func (r *CatalogRepository) Insert(ctx context.Context, entry *entity.GameCatalogEntry) error {
	if err := r.db.WithContext(ctx).Create(catalogToModel(entry)).Error; err != nil {
		r.logger.Error("Failed to insert catalog entry", map[string]any{
			"game_id": entry.ID,
			"error":   err.Error(),
		})
		return r.errorClassifier.MapError(err, errs.ErrNotFound)
	}
	return nil
}

// Update overwrites the synchronized fields of an entry, including false flags
func (r *CatalogRepository) Update(ctx context.Context, entry *entity.GameCatalogEntry) error {
	result := r.db.WithContext(ctx).Model(&model.GameCatalog{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"name":         entry.Name,
			"provider":     entry.Provider,
			"device":       entry.Device,
			"categories":   entry.Categories,
			"thumbnail":    entry.Thumbnail,
			"demo":         entry.Demo,
			"bookmark":     entry.Bookmark,
			"rewrite_rule": entry.RewriteRule,
			"exit_button":  entry.ExitButton,
			"updated_at":   entry.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("Failed to update catalog entry", map[string]any{
			"game_id": entry.ID,
			"error":   result.Error.Error(),
		})
		return r.errorClassifier.MapError(result.Error, errs.ErrNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteNotIn removes every entry missing from keep
func (r *CatalogRepository) DeleteNotIn(ctx context.Context, keep []string) (int64, error) {
	query := r.db.WithContext(ctx)
	if len(keep) == 0 {
		query = query.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		query = query.Where("id NOT IN ?", keep)
	}

	result := query.Delete(&model.GameCatalog{})
	if result.Error != nil {
		r.logger.Error("Failed to prune catalog entries", map[string]any{
			"kept":  len(keep),
			"error": result.Error.Error(),
		})
		return 0, r.errorClassifier.MapError(result.Error, errs.ErrNotFound)
	}

	r.logger.Info("Catalog entries pruned", map[string]any{
		"kept":    len(keep),
		"removed": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// List returns stored entries ordered by provider and name
func (r *CatalogRepository) List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error) {
	query := r.db.WithContext(ctx).Order("provider, name, id")
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []model.GameCatalog
	if err := query.Find(&models).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrNotFound)
	}

	entries := make([]*entity.GameCatalogEntry, 0, len(models))
	for i := range models {
		entries = append(entries, catalogToEntity(&models[i]))
	}
	return entries, nil
}
