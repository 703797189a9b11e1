package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/api/middleware"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
)

// TransferObserver records transfer outcomes
type TransferObserver interface {
	ObserveTransfer(role entity.Role, outcome string)
}

// LedgerHandler handles balance and transfer requests
type LedgerHandler struct {
	ledger   usecase.LedgerUseCase
	observer TransferObserver
	logger   coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance; observer may be nil
func NewLedgerHandler(ledger usecase.LedgerUseCase, observer TransferObserver, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		observer: observer,
		logger:   logger,
	}
}

// Transfer handles POST /api/accounts/:accountId/transfers
func (h *LedgerHandler) Transfer(c *gin.Context) {
	targetID, ok := parseAccountID(c, "accountId")
	if !ok {
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		respondError(c, h.logger, "Transfer without actor", domainerr.ErrUnauthorized)
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "amount", "Invalid request format: "+err.Error())
		return
	}

	result, err := h.ledger.Transfer(c.Request.Context(), usecase.TransferRequest{
		ActorRole: actor.Role,
		ActorID:   actor.ID,
		TargetID:  targetID,
		Amount:    req.Amount,
	})
	if h.observer != nil {
		h.observer.ObserveTransfer(actor.Role, outcomeLabel(err))
	}
	if err != nil {
		respondError(c, h.logger, "Transfer rejected", err)
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		AccountID: result.AccountID,
		Amount:    result.Amount,
		Balance:   result.NewBalance,
		At:        result.At,
	})
}

// GetBalance handles GET /api/accounts/:accountId/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	accountID, ok := parseAccountID(c, "accountId")
	if !ok {
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, "Error getting account balance", err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: balance.AccountID,
		Balance:   balance.Balance,
		Currency:  balance.Currency,
	})
}

// ListLedger handles GET /api/accounts/:accountId/ledger
func (h *LedgerHandler) ListLedger(c *gin.Context) {
	accountID, ok := parseAccountID(c, "accountId")
	if !ok {
		return
	}

	limit := defaultLedgerLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLedgerLimit {
			badRequest(c, "limit", "limit must be between 1 and "+strconv.Itoa(maxLedgerLimit))
			return
		}
		limit = n
	}

	entries, err := h.ledger.ListLedger(c.Request.Context(), accountID, limit)
	if err != nil {
		respondError(c, h.logger, "Error listing ledger entries", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLedgerResponse(accountID, entries))
}
