package models

import "github.com/shopspring/decimal"

// DaemonInfo — ответ getinfo, поля как их отдаёт демон.
type DaemonInfo struct {
	Version         int64           `json:"version"`
	ProtocolVersion int64           `json:"protocolversion"`
	WalletVersion   int64           `json:"walletversion"`
	Balance         decimal.Decimal `json:"balance"`
	Blocks          int64           `json:"blocks"`
	Connections     int64           `json:"connections"`
	Testnet         bool            `json:"testnet"`
	Errors          string          `json:"errors"`
}

// WalletTx — ответ gettransaction по хэшу (нужны только confirmations и время).
type WalletTx struct {
	TxID          string          `json:"txid"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	Confirmations int64           `json:"confirmations"`
	Time          int64           `json:"time"`
	TimeReceived  int64           `json:"timereceived"`
}

// ListedTx — элемент ответа listtransactions.
type ListedTx struct {
	Account       string          `json:"account"`
	Address       string          `json:"address"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Confirmations int64           `json:"confirmations"`
	TxID          string          `json:"txid"`
	Time          int64           `json:"time"`
}
