package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Виды переводов: move — внутри кошелька (без комиссии), sendfrom — в сеть.
const (
	TxKindMove     = "move"
	TxKindSendfrom = "sendfrom"
)

type Transaction struct {
	ID               int64           `db:"id" json:"id"`
	Kind             string          `db:"kind" json:"kind"`
	FromAccount      string          `db:"from_account" json:"from_account"`
	ToAccount        *string         `db:"to_account" json:"to_account,omitempty"`
	ToAddress        *string         `db:"to_address" json:"to_address,omitempty"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Currency         string          `db:"currency" json:"currency"`
	TxHash           *string         `db:"tx_hash" json:"tx_hash,omitempty"` // NULL для move
	Confirmations    *int64          `db:"confirmations" json:"confirmations,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	LastConfirmation *time.Time      `db:"last_confirmation" json:"last_confirmation,omitempty"`
}

type PaymentInput struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

// PaymentResult — итог платежа: каким механизмом ушли средства и что записано в ledger.
type PaymentResult struct {
	Success    bool            `json:"success"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	FeeImplied decimal.Decimal `json:"fee_implied"`
	TxHash     *string         `json:"tx_hash,omitempty"`
	LedgerID   int64           `json:"ledger_id"`
}
