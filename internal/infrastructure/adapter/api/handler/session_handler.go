package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
)

// SessionHandler handles game session requests
type SessionHandler struct {
	sessions usecase.SessionUseCase
	logger   coreport.Logger
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessions usecase.SessionUseCase, logger coreport.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Open handles POST /api/games/:gameId/open
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "accountId", "Invalid request format: "+err.Error())
		return
	}

	result, err := h.sessions.OpenGame(c.Request.Context(), usecase.OpenGameRequest{
		AccountID: req.AccountID,
		GameID:    c.Param("gameId"),
		Demo:      req.Demo,
		Params:    req.Params,
	})
	if err != nil {
		respondError(c, h.logger, "Open game failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.OpenGameResponse{
		Session: dto.NewSessionResponse(result.Session),
		Content: result.Content,
	})
}

// Close handles POST /api/sessions/:sessionId/close
func (h *SessionHandler) Close(c *gin.Context) {
	session, err := h.sessions.CloseSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, h.logger, "Close session failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// Jackpots handles GET /api/jackpots, passing the provider payload through
func (h *SessionHandler) Jackpots(c *gin.Context) {
	raw, err := h.sessions.Jackpots(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Jackpots unavailable", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
