package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"coinbridge_back/models"
)

// Ledger — единственный писатель таблицы transactions. Строки только
// добавляются; единственная разрешённая мутация — обновление подтверждений
// у sendfrom-строк.
type Ledger interface {
	RecordMove(from, to string, toAddress *string, amount decimal.Decimal, currency string) (models.Transaction, error)
	RecordSendfrom(from, toAddress string, amount decimal.Decimal, currency, txHash string, confirmations int64) (models.Transaction, error)
	RefreshConfirmations(txHash string, confirmations int64) error
	TransactionsByAccount(account string) ([]models.Transaction, error)
}

type Repository struct {
	Ledger
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Ledger: NewLedgerPostgres(db),
	}
}
