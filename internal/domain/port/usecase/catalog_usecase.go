package usecase

import (
	"context"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
)

// SyncOptions controls one catalog synchronization run
type SyncOptions struct {
	ImageStyle upstream.ImageStyle
	CDNURL     string
	DryRun     bool
	Prune      bool
}

// CatalogUseCase defines game catalog operations
type CatalogUseCase interface {
	// Sync fetches, normalizes and reconciles the upstream catalog
	Sync(ctx context.Context, opts SyncOptions) (*entity.SyncResult, error)

	// Preview returns the deduplicated upstream catalog without touching storage
	Preview(ctx context.Context, req upstream.GameListRequest) ([]*entity.GameCatalogEntry, error)

	// List returns persisted catalog entries
	List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error)
}
