package dto

import (
	"time"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

// TransferRequest represents the API request for a balance transfer
type TransferRequest struct {
	Amount string `json:"amount" form:"amount" binding:"required"`
}

// TransferResponse represents a committed transfer
type TransferResponse struct {
	AccountID uint64    `json:"accountId"`
	Amount    string    `json:"amount"`
	Balance   string    `json:"balance"`
	At        time.Time `json:"at"`
}

// BalanceResponse represents the API response for an account's balance
type BalanceResponse struct {
	AccountID uint64 `json:"accountId"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

// LedgerEntryResponse is one audit record
type LedgerEntryResponse struct {
	ID        uint64    `json:"id"`
	ActorID   *uint64   `json:"actorId"`
	Amount    string    `json:"amount"`
	Kind      string    `json:"kind"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LedgerResponse lists an account's recent ledger entries
type LedgerResponse struct {
	AccountID uint64                `json:"accountId"`
	Entries   []LedgerEntryResponse `json:"entries"`
}

// NewLedgerResponse maps domain entries, keeping their order
func NewLedgerResponse(accountID uint64, entries []*entity.LedgerEntry) LedgerResponse {
	resp := LedgerResponse{AccountID: accountID, Entries: make([]LedgerEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, LedgerEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Amount:    entity.FormatMoney(e.Amount),
			Kind:      string(e.Kind),
			Reference: e.Reference,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
