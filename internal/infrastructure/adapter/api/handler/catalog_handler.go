package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
)

// SyncObserver records catalog synchronization runs
type SyncObserver interface {
	ObserveSync(result *entity.SyncResult, err error)
}

// CatalogHandler serves the upstream game list and drives synchronization
type CatalogHandler struct {
	catalog      usecase.CatalogUseCase
	defaultPrune bool
	observer     SyncObserver
	logger       coreport.Logger
}

// NewCatalogHandler creates a new catalog handler instance; observer may be nil
func NewCatalogHandler(catalog usecase.CatalogUseCase, defaultPrune bool, observer SyncObserver, logger coreport.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:      catalog,
		defaultPrune: defaultPrune,
		observer:     observer,
		logger:       logger,
	}
}

// Games handles GET /api/games, a read-through view of the deduplicated upstream list
func (h *CatalogHandler) Games(c *gin.Context) {
	var q dto.GameListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "", "Invalid query: "+err.Error())
		return
	}

	style, err := upstream.ParseImageStyle(q.ImageStyle, "")
	if err != nil {
		respondError(c, h.logger, "Invalid game list request", err)
		return
	}

	games, err := h.catalog.Preview(c.Request.Context(), upstream.GameListRequest{ImageStyle: style, CDNURL: q.CDNURL})
	if err != nil {
		respondError(c, h.logger, "Game list unavailable", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGamesResponse(games))
}

// List handles GET /api/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	var q dto.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "", "Invalid query: "+err.Error())
		return
	}

	games, err := h.catalog.List(c.Request.Context(), q.Provider, q.Limit, q.Offset)
	if err != nil {
		respondError(c, h.logger, "Error listing catalog", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGamesResponse(games))
}

// Sync handles POST /api/catalog/sync
func (h *CatalogHandler) Sync(c *gin.Context) {
	var req dto.SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "", "Invalid request format: "+err.Error())
			return
		}
	}

	style, err := upstream.ParseImageStyle(req.ImageStyle, "")
	if err != nil {
		respondError(c, h.logger, "Invalid sync request", err)
		return
	}

	prune := h.defaultPrune
	if req.Prune != nil {
		prune = *req.Prune
	}

	result, err := h.catalog.Sync(c.Request.Context(), usecase.SyncOptions{
		ImageStyle: style,
		CDNURL:     req.CDNURL,
		DryRun:     req.DryRun,
		Prune:      prune,
	})
	if h.observer != nil {
		h.observer.ObserveSync(result, err)
	}
	if err != nil {
		respondError(c, h.logger, "Catalog sync failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
