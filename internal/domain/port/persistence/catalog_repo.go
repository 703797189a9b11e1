package persistence

import (
	"context"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// CatalogRepository stores synchronized game catalog entries keyed by identifier
type CatalogRepository interface {
	// FindByIDs returns the stored entries whose id is in ids, keyed by id
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.GameCatalogEntry, error)

	// Insert stores a new entry
	Insert(ctx context.Context, entry *entity.GameCatalogEntry) error

	// Update overwrites the synchronized fields of an existing entry
	Update(ctx context.Context, entry *entity.GameCatalogEntry) error

	// DeleteNotIn removes every entry whose id is not in keep and returns the count
	DeleteNotIn(ctx context.Context, keep []string) (int64, error)

	// List returns stored entries ordered by provider and name
	List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error)
}
