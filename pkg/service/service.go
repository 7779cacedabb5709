package service

import (
	"context"

	"github.com/shopspring/decimal"

	"coinbridge_back/models"
	"coinbridge_back/pkg/coinrpc"
	"coinbridge_back/pkg/repository"
)

// CoinDaemon — то, что мосту нужно от RPC-клиента демона.
type CoinDaemon interface {
	EnsureConnected() error
	ListAccounts() (map[string]decimal.Decimal, error)
	GetAddressesByAccount(account string) ([]string, error)
	GetAccountAddress(account string) (string, error)
	GetBalance(account string) (decimal.Decimal, error)
	GetInfo() (models.DaemonInfo, error)
	GetTransaction(txHash string) (models.WalletTx, error)
	ListTransactions(account string, count, startAt int) ([]models.ListedTx, error)
	Move(from, to string, amount decimal.Decimal) error
	SendFrom(from, toAddress string, amount decimal.Decimal) (string, error)
	SignMessage(address, message string) (string, error)
	VerifyMessage(address, signature, message string) (bool, error)
	EncryptWallet() error
	WithUnlockedWallet(ctx context.Context, timeoutSeconds int, body func(ctx context.Context) error) error
}

type Bridge interface {
	Payment(ctx context.Context, origin, destination, amount string) (models.PaymentResult, error)
	UpdateConfirmations(txHash string) (int64, error)
	Balance(account string) (decimal.Decimal, error)
	AccountAddress(account string) (string, error)
	Info() (models.DaemonInfo, error)
	LedgerTransactions(account string) ([]models.Transaction, error)
	DaemonTransactions(account string, count, startAt int) ([]models.ListedTx, error)
	SignMessage(addr, message string) (string, error)
	VerifyMessage(addr, signature, message string) (bool, error)
	EncryptWallet() error
}

type Service struct {
	Bridge
}

func NewService(repos *repository.Repository, client *coinrpc.Client) *Service {
	return &Service{
		Bridge: NewBridgeService(repos.Ledger, client, client.Config()),
	}
}
