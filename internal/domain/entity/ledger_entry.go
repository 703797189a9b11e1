package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind classifies a balance mutation
type LedgerKind string

// Ledger kinds
const (
	LedgerKindAdjustment LedgerKind = "adjustment"
	LedgerKindBet        LedgerKind = "bet"
	LedgerKindWin        LedgerKind = "win"
)

// LedgerEntry is an immutable audit record of one balance mutation
type LedgerEntry struct {
	ID          uint64
	ActorID     *uint64 // nil for system-initiated mutations such as provider callbacks
	RecipientID uint64
	Amount      decimal.Decimal
	Kind        LedgerKind
	Reference   string // provider trade id for bet/win entries
	CreatedAt   time.Time
}

// NewAdjustment builds the audit record of a manual transfer
func NewAdjustment(actorID, recipientID uint64, amount decimal.Decimal, at time.Time) *LedgerEntry {
	actor := actorID
	return &LedgerEntry{
		ActorID:     &actor,
		RecipientID: recipientID,
		Amount:      amount,
		Kind:        LedgerKindAdjustment,
		CreatedAt:   at,
	}
}

// NewSystemEntry builds an actor-less entry, used by wallet callbacks
func NewSystemEntry(recipientID uint64, amount decimal.Decimal, kind LedgerKind, reference string, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		RecipientID: recipientID,
		Amount:      amount,
		Kind:        kind,
		Reference:   reference,
		CreatedAt:   at,
	}
}
