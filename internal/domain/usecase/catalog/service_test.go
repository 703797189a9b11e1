package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/mocks/port/core"
	"github.com/amirhossein-jamali/game-portal/mocks/port/persistence"
	upstreammocks "github.com/amirhossein-jamali/game-portal/mocks/port/upstream"
)

const gameListPayload = `{"status": "success", "error": "", "content": {
	"NetEnt": [
		{"id": "1", "name": "Starburst", "img": "https://cdn/s.png"},
		{"id": "1", "name": "Starburst", "img": ""},
		{"id": "2", "name": "Gonzo's Quest"}
	]
}}`

type syncFixture struct {
	api     *upstreammocks.MockGamesAPI
	uow     *persistence.MockUnitOfWork
	catalog *persistence.MockCatalogRepository
	locks   *persistence.MockSyncLockRepository
	service *Service
}

func newSyncFixture(t *testing.T) *syncFixture {
	f := &syncFixture{
		api:     new(upstreammocks.MockGamesAPI),
		uow:     new(persistence.MockUnitOfWork),
		catalog: new(persistence.MockCatalogRepository),
		locks:   new(persistence.MockSyncLockRepository),
	}
	f.uow.On("GetCatalogRepository", mock.Anything).Return(f.catalog).Maybe()
	f.uow.On("GetSyncLockRepository", mock.Anything).Return(f.locks).Maybe()
	f.service = NewService(f.api, f.uow, Config{CDNURL: "https://cdn"}, core.FixedTimeProvider{At: syncTime}, core.NewPermissiveLogger())

	t.Cleanup(func() {
		f.api.AssertExpectations(t)
		f.uow.AssertExpectations(t)
		f.catalog.AssertExpectations(t)
		f.locks.AssertExpectations(t)
	})
	return f
}

func TestService_Sync(t *testing.T) {
	ctx := context.Background()
	listReq := upstream.GameListRequest{ImageStyle: upstream.ImageStyle1, CDNURL: "https://cdn"}

	t.Run("should reconcile deduplicated games in one transaction", func(t *testing.T) {
		f := newSyncFixture(t)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(json.RawMessage(gameListPayload), nil)
		f.uow.On("Begin", mock.Anything).Return(ctx, nil)
		f.uow.On("Commit", ctx).Return(nil)
		f.locks.On("AcquireTxLock", ctx, SyncLockName).Return(nil)
		f.catalog.On("FindByIDs", ctx, []string{"1", "2"}).Return(map[string]*entity.GameCatalogEntry{}, nil)
		f.catalog.On("Insert", ctx, mock.Anything).Return(nil).Twice()
		f.catalog.On("DeleteNotIn", ctx, []string{"1", "2"}).Return(int64(1), nil)

		result, err := f.service.Sync(ctx, usecase.SyncOptions{Prune: true})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Fetched)
		assert.Equal(t, 2, result.Unique)
		assert.Equal(t, 2, result.Inserted)
		assert.Equal(t, 1, result.Pruned)
		assert.False(t, result.DryRun)
	})

	t.Run("should roll back dry runs and still report counts", func(t *testing.T) {
		f := newSyncFixture(t)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(json.RawMessage(gameListPayload), nil)
		f.uow.On("Begin", mock.Anything).Return(ctx, nil)
		f.uow.On("Rollback", ctx).Return(nil)
		f.locks.On("AcquireTxLock", ctx, SyncLockName).Return(nil)
		f.catalog.On("FindByIDs", ctx, []string{"1", "2"}).
			Return(map[string]*entity.GameCatalogEntry{"1": {ID: "1", Name: "Starburst", Provider: "NetEnt", Device: 2, Thumbnail: "https://cdn/s.png"}}, nil)
		f.catalog.On("Insert", ctx, mock.Anything).Return(nil).Once()

		result, err := f.service.Sync(ctx, usecase.SyncOptions{DryRun: true})

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 1, result.Inserted)
		assert.Equal(t, 1, result.Unchanged)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should abort before any write when upstream fails", func(t *testing.T) {
		f := newSyncFixture(t)
		upstreamErr := errs.NewUpstreamError(upstream.CmdGetGamesList, 502, "bad gateway", nil)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(nil, upstreamErr)

		_, err := f.service.Sync(ctx, usecase.SyncOptions{Prune: true})

		assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should abort on malformed body", func(t *testing.T) {
		f := newSyncFixture(t)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(json.RawMessage(`{"status":"success","content":"nope"}`), nil)

		_, err := f.service.Sync(ctx, usecase.SyncOptions{})

		assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should refuse an empty catalog", func(t *testing.T) {
		f := newSyncFixture(t)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(json.RawMessage(`{"status":"success","content":{}}`), nil)

		_, err := f.service.Sync(ctx, usecase.SyncOptions{Prune: true})

		assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should roll back when the lock cannot be taken", func(t *testing.T) {
		f := newSyncFixture(t)
		f.api.On("FetchGameList", mock.Anything, listReq).Return(json.RawMessage(gameListPayload), nil)
		f.uow.On("Begin", mock.Anything).Return(ctx, nil)
		f.uow.On("Rollback", ctx).Return(nil)
		f.locks.On("AcquireTxLock", ctx, SyncLockName).Return(errs.ErrDatabaseConnection)

		_, err := f.service.Sync(ctx, usecase.SyncOptions{})

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})

	t.Run("should finish the shared run when the first caller gives up", func(t *testing.T) {
		f := newSyncFixture(t)
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		var mu sync.Mutex
		var runErr error
		var bounded bool
		f.api.On("FetchGameList", mock.Anything, listReq).Run(func(args mock.Arguments) {
			runCtx := args.Get(0).(context.Context)
			once.Do(func() { close(started) })
			<-release
			mu.Lock()
			defer mu.Unlock()
			if runErr == nil {
				runErr = runCtx.Err()
			}
			_, bounded = runCtx.Deadline()
		}).Return(json.RawMessage(gameListPayload), nil)
		f.uow.On("Begin", mock.Anything).Return(ctx, nil)
		f.uow.On("Commit", ctx).Return(nil)
		f.locks.On("AcquireTxLock", ctx, SyncLockName).Return(nil)
		f.catalog.On("FindByIDs", ctx, []string{"1", "2"}).Return(map[string]*entity.GameCatalogEntry{}, nil)
		f.catalog.On("Insert", ctx, mock.Anything).Return(nil)

		firstCtx, cancelFirst := context.WithCancel(ctx)
		firstErr := make(chan error, 1)
		go func() {
			_, err := f.service.Sync(firstCtx, usecase.SyncOptions{})
			firstErr <- err
		}()
		<-started

		type outcome struct {
			result *entity.SyncResult
			err    error
		}
		second := make(chan outcome, 1)
		go func() {
			r, err := f.service.Sync(ctx, usecase.SyncOptions{})
			second <- outcome{r, err}
		}()

		cancelFirst()
		assert.ErrorIs(t, <-firstErr, context.Canceled)

		close(release)
		got := <-second
		require.NoError(t, got.err)
		assert.Equal(t, 2, got.result.Inserted)
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, runErr, "run context must outlive the first caller")
		assert.True(t, bounded, "run context must carry a deadline")
	})
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	req := upstream.GameListRequest{ImageStyle: upstream.ImageStyle5, CDNURL: "https://cdn"}
	f.api.On("FetchGameList", ctx, req).Return(json.RawMessage(gameListPayload), nil)

	entries, err := f.service.Preview(ctx, upstream.GameListRequest{ImageStyle: upstream.ImageStyle5})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "https://cdn/s.png", entries[0].Thumbnail)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	f.catalog.On("List", ctx, "NetEnt", 1000, 0).Return([]*entity.GameCatalogEntry{{ID: "1"}}, nil)

	entries, err := f.service.List(ctx, "NetEnt", 0, -5)

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
