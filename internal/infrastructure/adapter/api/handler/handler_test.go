package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/game-portal/mocks/port/core"
	ucmock "github.com/amirhossein-jamali/game-portal/mocks/port/usecase"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type observerStub struct {
	transfers []string
	syncs     int
	callbacks []string
}

func (o *observerStub) ObserveTransfer(role entity.Role, outcome string) {
	o.transfers = append(o.transfers, string(role)+":"+outcome)
}

func (o *observerStub) ObserveSync(_ *entity.SyncResult, _ error) { o.syncs++ }

func (o *observerStub) ObserveCallback(cmd, status, errorCode string) {
	o.callbacks = append(o.callbacks, cmd+":"+status+":"+errorCode)
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ActorFromHeaders())
	return router
}

func doJSON(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func runnerHeaders() map[string]string {
	return map[string]string{middleware.HeaderActorID: "2", middleware.HeaderActorRole: "runner"}
}

func TestLedgerHandler_Transfer(t *testing.T) {
	t.Run("committed", func(t *testing.T) {
		ledger := &ucmock.MockLedgerUseCase{}
		observer := &observerStub{}
		h := handler.NewLedgerHandler(ledger, observer, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		ledger.On("Transfer", mock.Anything, usecase.TransferRequest{
			ActorRole: entity.RoleRunner,
			ActorID:   2,
			TargetID:  3,
			Amount:    "150.00",
		}).Return(&usecase.TransferResult{AccountID: 3, NewBalance: "250.00", Amount: "150.00", At: testNow}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{"amount":"150.00"}`, runnerHeaders())

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TransferResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "250.00", resp.Balance)
		assert.Equal(t, uint64(3), resp.AccountID)
		assert.Equal(t, []string{"runner:ok"}, observer.transfers)
		ledger.AssertExpectations(t)
	})

	t.Run("missing actor", func(t *testing.T) {
		ledger := &ucmock.MockLedgerUseCase{}
		h := handler.NewLedgerHandler(ledger, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{"amount":"10"}`, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, errs.CodeUnauthorized, decodeError(t, rec).Code)
		ledger.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
	})

	t.Run("invalid account id", func(t *testing.T) {
		h := handler.NewLedgerHandler(&ucmock.MockLedgerUseCase{}, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		rec := doJSON(router, http.MethodPost, "/api/accounts/abc/transfers", `{"amount":"10"}`, runnerHeaders())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errs.CodeInvalidAccountID, decodeError(t, rec).Code)
	})

	t.Run("missing amount", func(t *testing.T) {
		h := handler.NewLedgerHandler(&ucmock.MockLedgerUseCase{}, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{}`, runnerHeaders())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "amount", decodeError(t, rec).Field)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		ledger := &ucmock.MockLedgerUseCase{}
		observer := &observerStub{}
		h := handler.NewLedgerHandler(ledger, observer, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		ledger.On("Transfer", mock.Anything, mock.Anything).
			Return(nil, errs.NewQuotaExceededError("per-recipient daily cap", 2, 3, "1000.00", "900.00", "150.00")).Once()

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{"amount":"150.00"}`, runnerHeaders())

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, errs.CodeQuotaExceeded, decodeError(t, rec).Code)
		assert.Equal(t, []string{"runner:4290"}, observer.transfers)
	})

	t.Run("field validation", func(t *testing.T) {
		ledger := &ucmock.MockLedgerUseCase{}
		h := handler.NewLedgerHandler(ledger, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		ledger.On("Transfer", mock.Anything, mock.Anything).
			Return(nil, errs.NewValidationError("amount", "must not exceed 500.00", errs.ErrInvalidAmount)).Once()

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{"amount":"600"}`, runnerHeaders())

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "amount", resp.Field)
		assert.Equal(t, "must not exceed 500.00", resp.Message)
		assert.Equal(t, errs.CodeInvalidAmount, resp.Code)
	})

	t.Run("database failure hides details", func(t *testing.T) {
		ledger := &ucmock.MockLedgerUseCase{}
		h := handler.NewLedgerHandler(ledger, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/accounts/:accountId/transfers", h.Transfer)

		ledger.On("Transfer", mock.Anything, mock.Anything).Return(nil, errors.New("pq: something internal")).Once()

		rec := doJSON(router, http.MethodPost, "/api/accounts/3/transfers", `{"amount":"10"}`, runnerHeaders())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
	})
}

func TestLedgerHandler_Queries(t *testing.T) {
	ledger := &ucmock.MockLedgerUseCase{}
	h := handler.NewLedgerHandler(ledger, nil, core.NewPermissiveLogger())
	router := newRouter()
	router.GET("/api/accounts/:accountId/balance", h.GetBalance)
	router.GET("/api/accounts/:accountId/ledger", h.ListLedger)

	ledger.On("GetBalance", mock.Anything, uint64(3)).
		Return(&usecase.AccountBalance{AccountID: 3, Balance: "100.00", Currency: "USD"}, nil).Once()
	ledger.On("GetBalance", mock.Anything, uint64(99)).Return(nil, errs.ErrAccountNotFound).Once()

	actor := uint64(2)
	ledger.On("ListLedger", mock.Anything, uint64(3), 10).Return([]*entity.LedgerEntry{
		{ID: 7, ActorID: &actor, RecipientID: 3, Amount: decimal.RequireFromString("150"), Kind: entity.LedgerKindAdjustment, CreatedAt: testNow},
	}, nil).Once()

	rec := doJSON(router, http.MethodGet, "/api/accounts/3/balance", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accountId":3,"balance":"100.00","currency":"USD"}`, rec.Body.String())

	rec = doJSON(router, http.MethodGet, "/api/accounts/99/balance", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.CodeAccountNotFound, decodeError(t, rec).Code)

	rec = doJSON(router, http.MethodGet, "/api/accounts/3/ledger?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.LedgerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "150.00", resp.Entries[0].Amount)
	assert.Equal(t, string(entity.LedgerKindAdjustment), resp.Entries[0].Kind)

	rec = doJSON(router, http.MethodGet, "/api/accounts/3/ledger?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ledger.AssertExpectations(t)
}

func TestCatalogHandler(t *testing.T) {
	games := []*entity.GameCatalogEntry{{ID: "1", Name: "Slot A", Provider: "ProviderA", Device: 2}}

	t.Run("games preview", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, false, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.GET("/api/games", h.Games)

		catalog.On("Preview", mock.Anything, upstream.GameListRequest{ImageStyle: upstream.ImageStyle6, CDNURL: "https://cdn"}).
			Return(games, nil).Once()

		rec := doJSON(router, http.MethodGet, "/api/games?img=game_img_6&cdnUrl="+url.QueryEscape("https://cdn"), "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.GamesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, "Slot A", resp.Games[0].Name)
		catalog.AssertExpectations(t)
	})

	t.Run("unsupported image style", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, false, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.GET("/api/games", h.Games)

		rec := doJSON(router, http.MethodGet, "/api/games?img=game_img_9", "", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "img", decodeError(t, rec).Field)
		catalog.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, false, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.GET("/api/games", h.Games)

		catalog.On("Preview", mock.Anything, mock.Anything).
			Return(nil, errs.NewUpstreamError(upstream.CmdGetGamesList, 503, "Service Unavailable", nil)).Once()

		rec := doJSON(router, http.MethodGet, "/api/games", "", nil)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, errs.CodeUpstreamUnavailable, decodeError(t, rec).Code)
	})

	t.Run("sync with body", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		observer := &observerStub{}
		h := handler.NewCatalogHandler(catalog, true, observer, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/catalog/sync", h.Sync)

		result := &entity.SyncResult{Fetched: 3, Unique: 2, Inserted: 2, DryRun: true}
		catalog.On("Sync", mock.Anything, usecase.SyncOptions{ImageStyle: upstream.ImageStyle2, DryRun: true, Prune: true}).
			Return(result, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/catalog/sync", `{"img":"game_img_2","dryRun":true}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"fetched":3,"unique":2,"inserted":2,"updated":0,"unchanged":0,"pruned":0,"dryRun":true}`, rec.Body.String())
		assert.Equal(t, 1, observer.syncs)
		catalog.AssertExpectations(t)
	})

	t.Run("sync without body uses defaults", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, false, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/catalog/sync", h.Sync)

		catalog.On("Sync", mock.Anything, usecase.SyncOptions{}).Return(&entity.SyncResult{}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/catalog/sync", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		catalog.AssertExpectations(t)
	})

	t.Run("sync prune override", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, true, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/catalog/sync", h.Sync)

		catalog.On("Sync", mock.Anything, usecase.SyncOptions{Prune: false}).Return(&entity.SyncResult{}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/catalog/sync", `{"prune":false}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		catalog.AssertExpectations(t)
	})

	t.Run("list", func(t *testing.T) {
		catalog := &ucmock.MockCatalogUseCase{}
		h := handler.NewCatalogHandler(catalog, false, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.GET("/api/catalog", h.List)

		catalog.On("List", mock.Anything, "ProviderA", 20, 40).Return(games, nil).Once()

		rec := doJSON(router, http.MethodGet, "/api/catalog?provider=ProviderA&limit=20&offset=40", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		catalog.AssertExpectations(t)
	})
}

func TestSessionHandler(t *testing.T) {
	session := &entity.GameSession{
		PublicID:  "7f1c6c1e-0d59-4a43-9d77-3f3b0c1a2b3c",
		AccountID: 3,
		GameID:    "42",
		Status:    entity.SessionOpen,
		BetTotal:  decimal.Zero,
		WinTotal:  decimal.Zero,
		OpenedAt:  testNow,
	}

	t.Run("open", func(t *testing.T) {
		sessions := &ucmock.MockSessionUseCase{}
		h := handler.NewSessionHandler(sessions, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/games/:gameId/open", h.Open)

		sessions.On("OpenGame", mock.Anything, usecase.OpenGameRequest{
			AccountID: 3,
			GameID:    "42",
			Params:    map[string]string{"language": "en"},
		}).Return(&usecase.OpenGameResult{Session: session, Content: json.RawMessage(`{"game":{"url":"https://play"}}`)}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/api/games/42/open", `{"accountId":3,"params":{"language":"en"}}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.OpenGameResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, session.PublicID, resp.Session.SessionID)
		assert.Equal(t, "open", resp.Session.Status)
		assert.Equal(t, "0.00", resp.Session.BetTotal)
		assert.JSONEq(t, `{"game":{"url":"https://play"}}`, string(resp.Content))
		assert.NotContains(t, rec.Body.String(), "providerToken")
		sessions.AssertExpectations(t)
	})

	t.Run("open requires account", func(t *testing.T) {
		h := handler.NewSessionHandler(&ucmock.MockSessionUseCase{}, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/games/:gameId/open", h.Open)

		rec := doJSON(router, http.MethodPost, "/api/games/42/open", `{}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("close unknown", func(t *testing.T) {
		sessions := &ucmock.MockSessionUseCase{}
		h := handler.NewSessionHandler(sessions, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/sessions/:sessionId/close", h.Close)

		sessions.On("CloseSession", mock.Anything, "nope").Return(nil, errs.ErrSessionNotFound).Once()

		rec := doJSON(router, http.MethodPost, "/api/sessions/nope/close", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, errs.CodeSessionNotFound, decodeError(t, rec).Code)
	})

	t.Run("jackpots passthrough", func(t *testing.T) {
		sessions := &ucmock.MockSessionUseCase{}
		h := handler.NewSessionHandler(sessions, core.NewPermissiveLogger())
		router := newRouter()
		router.GET("/api/jackpots", h.Jackpots)

		sessions.On("Jackpots", mock.Anything).Return(`{"status":"success","content":[1,2]}`, nil).Once()

		rec := doJSON(router, http.MethodGet, "/api/jackpots", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","content":[1,2]}`, rec.Body.String())
	})
}

func TestWalletHandler(t *testing.T) {
	t.Run("json body keeps numeric literals", func(t *testing.T) {
		wallet := &ucmock.MockWalletUseCase{}
		observer := &observerStub{}
		h := handler.NewWalletHandler(wallet, observer, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/wallet/callback", h.Callback)

		wallet.On("Handle", mock.Anything, map[string]string{
			"cmd":       "writeBet",
			"login":     "player1",
			"bet":       "1.50",
			"win":       "0",
			"sessionId": "tok-1",
			"key":       "secret",
			"extra":     "",
		}).Return(usecase.WalletResponse{Status: "success", Login: "player1", Balance: "98.50", Currency: "USD"}).Once()

		rec := doJSON(router, http.MethodPost, "/api/wallet/callback",
			`{"cmd":"writeBet","login":"player1","bet":1.50,"win":0,"sessionId":"tok-1","key":"secret","extra":null}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","error":"","login":"player1","balance":"98.50","currency":"USD"}`, rec.Body.String())
		assert.Equal(t, []string{"writeBet:success:"}, observer.callbacks)
		wallet.AssertExpectations(t)
	})

	t.Run("form body", func(t *testing.T) {
		wallet := &ucmock.MockWalletUseCase{}
		h := handler.NewWalletHandler(wallet, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/wallet/callback", h.Callback)

		wallet.On("Handle", mock.Anything, map[string]string{"cmd": "getBalance", "login": "player1", "key": "secret"}).
			Return(usecase.WalletResponse{Status: "fail", Error: "fail_user"}).Once()

		form := url.Values{"cmd": {"getBalance"}, "login": {"player1"}, "key": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/api/wallet/callback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"fail","error":"fail_user"}`, rec.Body.String())
	})

	t.Run("malformed json still answers 200", func(t *testing.T) {
		wallet := &ucmock.MockWalletUseCase{}
		h := handler.NewWalletHandler(wallet, nil, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/wallet/callback", h.Callback)

		rec := doJSON(router, http.MethodPost, "/api/wallet/callback", `[1,2`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"fail","error":"fail_request"}`, rec.Body.String())
		wallet.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("rate limited", func(t *testing.T) {
		wallet := &ucmock.MockWalletUseCase{}
		h := handler.NewWalletHandler(wallet, nil, core.NewPermissiveLogger())
		limiter := middleware.NewRateLimiter(1, 1, core.FixedTimeProvider{At: testNow}, core.NewPermissiveLogger())
		router := newRouter()
		router.POST("/api/wallet/callback", limiter.Middleware(h.RateLimited), h.Callback)

		wallet.On("Handle", mock.Anything, mock.Anything).Return(usecase.WalletResponse{Status: "success"}).Once()

		first := doJSON(router, http.MethodPost, "/api/wallet/callback", `{"cmd":"getBalance"}`, nil)
		second := doJSON(router, http.MethodPost, "/api/wallet/callback", `{"cmd":"getBalance"}`, nil)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, `{"status":"fail","error":"fail_rate_limit"}`, second.Body.String())
		wallet.AssertExpectations(t)
	})

	t.Run("panic answers within the protocol", func(t *testing.T) {
		wallet := &ucmock.MockWalletUseCase{}
		observer := &observerStub{}
		h := handler.NewWalletHandler(wallet, observer, core.NewPermissiveLogger())
		router := newRouter()
		router.Use(middleware.ErrorHandler(core.NewPermissiveLogger()))
		router.POST("/api/wallet/callback", middleware.ReplyOnPanic(h.InternalError), h.Callback)

		wallet.On("Handle", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("ledger unavailable")
		}).Once()

		rec := doJSON(router, http.MethodPost, "/api/wallet/callback", `{"cmd":"writeBet"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"fail","error":"fail_internal"}`, rec.Body.String())
		assert.Equal(t, []string{":fail:fail_internal"}, observer.callbacks)
	})
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	router := newRouter()
	router.GET("/up", handler.NewHealthHandler(pingerStub{}, core.NewPermissiveLogger()).Health)
	router.GET("/down", handler.NewHealthHandler(pingerStub{err: errors.New("refused")}, core.NewPermissiveLogger()).Health)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/up", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(router, http.MethodGet, "/down", "", nil).Code)
}
