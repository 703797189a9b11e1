package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
)

// SyncLockName is the cross-process lock held while the catalog table is rewritten
const SyncLockName = "game-catalog-sync"

// DefaultSyncTimeout bounds a sync run when Config.SyncTimeout is unset
const DefaultSyncTimeout = 5 * time.Minute

// errDryRun forces the reconcile transaction to roll back
var errDryRun = errors.New("dry run")

// Config holds synchronizer settings
type Config struct {
	DefaultImageStyle upstream.ImageStyle
	CDNURL            string
	Placeholders      []string
	SyncTimeout       time.Duration
}

// Service implements the game catalog synchronizer
type Service struct {
	api          upstream.GamesAPI
	uow          persistence.UnitOfWork
	deduper      *Deduper
	config       Config
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	group        singleflight.Group
}

var _ usecase.CatalogUseCase = (*Service)(nil)

// NewService creates a catalog synchronizer
func NewService(
	api upstream.GamesAPI,
	uow persistence.UnitOfWork,
	config Config,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	if config.DefaultImageStyle == "" {
		config.DefaultImageStyle = upstream.ImageStyle1
	}
	if config.SyncTimeout <= 0 {
		config.SyncTimeout = DefaultSyncTimeout
	}
	return &Service{
		api:          api,
		uow:          uow,
		deduper:      NewDeduper(NewNormalizer(config.Placeholders)),
		config:       config,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Sync fetches the catalog and reconciles it with storage in one transaction.
// Concurrent runs with the same options share a single execution. The shared run
// is detached from the caller that started it and bounded by Config.SyncTimeout;
// a caller whose ctx ends stops waiting without aborting the others.
func (s *Service) Sync(ctx context.Context, opts usecase.SyncOptions) (*entity.SyncResult, error) {
	opts = s.withDefaults(opts)
	key := fmt.Sprintf("%s|%s|%t|%t", opts.ImageStyle, opts.CDNURL, opts.DryRun, opts.Prune)

	ch := s.group.DoChan(key, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.SyncTimeout)
		defer cancel()
		return s.sync(runCtx, opts)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.logger.Warn("Caller stopped waiting for catalog sync", map[string]any{"key": key, "error": ctx.Err().Error()})
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	v, shared := res.Val, res.Shared
	if shared {
		s.logger.Debug("Catalog sync result shared with a concurrent caller", map[string]any{"key": key})
	}

	result := *v.(*entity.SyncResult)
	return &result, nil
}

func (s *Service) sync(ctx context.Context, opts usecase.SyncOptions) (*entity.SyncResult, error) {
	started := s.timeProvider.Now()

	flat, entries, err := s.fetch(ctx, upstream.GameListRequest{ImageStyle: opts.ImageStyle, CDNURL: opts.CDNURL})
	if err != nil {
		s.logger.Error("Catalog fetch failed", errs.LogFields(err))
		return nil, err
	}
	if len(entries) == 0 {
		err := errs.NewUpstreamError(upstream.CmdGetGamesList, 0, "game list is empty", nil)
		s.logger.Error("Catalog fetch returned no games", errs.LogFields(err))
		return nil, err
	}

	var result *entity.SyncResult
	err = persistence.RunInTx(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.uow.GetSyncLockRepository(txCtx).AcquireTxLock(txCtx, SyncLockName); err != nil {
			return err
		}

		r, err := Reconcile(txCtx, s.uow.GetCatalogRepository(txCtx), entries, opts.Prune, s.timeProvider)
		if err != nil {
			return err
		}
		result = r

		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		s.logger.Error("Catalog reconcile failed", errs.LogFields(err))
		return nil, err
	}

	result.Fetched = len(flat)
	result.DryRun = opts.DryRun

	s.logger.Info("Catalog synchronized", map[string]any{
		"image_style": string(opts.ImageStyle),
		"fetched":     result.Fetched,
		"unique":      result.Unique,
		"inserted":    result.Inserted,
		"updated":     result.Updated,
		"unchanged":   result.Unchanged,
		"pruned":      result.Pruned,
		"dry_run":     result.DryRun,
		"duration_ms": s.timeProvider.Since(started).Milliseconds(),
	})

	return result, nil
}

// Preview returns the deduplicated upstream catalog without writing
func (s *Service) Preview(ctx context.Context, req upstream.GameListRequest) ([]*entity.GameCatalogEntry, error) {
	if req.ImageStyle == "" {
		req.ImageStyle = s.config.DefaultImageStyle
	}
	if req.CDNURL == "" {
		req.CDNURL = s.config.CDNURL
	}

	_, entries, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns persisted catalog entries
func (s *Service) List(ctx context.Context, provider string, limit, offset int) ([]*entity.GameCatalogEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return s.uow.GetCatalogRepository(ctx).List(ctx, provider, limit, offset)
}

// fetch runs the pure stages over one upstream snapshot
func (s *Service) fetch(ctx context.Context, req upstream.GameListRequest) ([]entity.FlatGame, []*entity.GameCatalogEntry, error) {
	raw, err := s.api.FetchGameList(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	flat, err := FlattenPayload(raw)
	if err != nil {
		return nil, nil, err
	}

	return flat, s.deduper.Dedupe(flat), nil
}

// FlattenPayload extracts and flattens the content object of a getGamesList envelope
func FlattenPayload(raw json.RawMessage) ([]entity.FlatGame, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errs.NewUpstreamError(upstream.CmdGetGamesList, 0, "malformed JSON body", nil)
	}

	content := gjson.GetBytes(raw, "content")
	if !content.IsObject() && !content.IsArray() {
		return nil, errs.NewUpstreamError(upstream.CmdGetGamesList, 0, "content is missing or not a provider mapping", nil)
	}

	return Flatten(content), nil
}

func (s *Service) withDefaults(opts usecase.SyncOptions) usecase.SyncOptions {
	if opts.ImageStyle == "" {
		opts.ImageStyle = s.config.DefaultImageStyle
	}
	if opts.CDNURL == "" {
		opts.CDNURL = s.config.CDNURL
	}
	return opts
}
