package catalog

import (
	"context"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
)

// Reconcile upserts entries by identifier using an explicit field comparison and,
// when prune is set, deletes stored entries missing from the snapshot.
// It must run inside the caller's transaction.
func Reconcile(
	ctx context.Context,
	repo persistence.CatalogRepository,
	entries []*entity.GameCatalogEntry,
	prune bool,
	timeProvider coreport.TimeProvider,
) (*entity.SyncResult, error) {
	result := &entity.SyncResult{Unique: len(entries)}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	stored, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	for _, e := range entries {
		existing, ok := stored[e.ID]
		switch {
		case !ok:
			e.CreatedAt = now
			e.UpdatedAt = now
			if err := repo.Insert(ctx, e); err != nil {
				return nil, err
			}
			result.Inserted++
		case existing.SameContent(e):
			result.Unchanged++
		default:
			existing.CopyContentFrom(e)
			existing.UpdatedAt = now
			if err := repo.Update(ctx, existing); err != nil {
				return nil, err
			}
			result.Updated++
		}
	}

	if prune {
		pruned, err := repo.DeleteNotIn(ctx, ids)
		if err != nil {
			return nil, err
		}
		result.Pruned = int(pruned)
	}

	return result, nil
}
