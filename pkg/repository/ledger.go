package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"coinbridge_back/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id                BIGSERIAL PRIMARY KEY,
    kind              VARCHAR(25) NOT NULL,
    from_account      VARCHAR(50) NOT NULL,
    to_account        VARCHAR(50),
    to_address        VARCHAR(100),
    amount            NUMERIC(23, 8) NOT NULL CHECK (amount > 0),
    currency          VARCHAR(10) NOT NULL,
    tx_hash           VARCHAR(100),
    confirmations     BIGINT,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_confirmation TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_transactions_from_account ON transactions (from_account);
CREATE INDEX IF NOT EXISTS idx_transactions_tx_hash ON transactions (tx_hash);
`

type LedgerPostgres struct {
	db *sqlx.DB
}

func NewLedgerPostgres(db *sqlx.DB) *LedgerPostgres {
	return &LedgerPostgres{db: db}
}

// InitSchema создаёт таблицу transactions, если её ещё нет.
func (r *LedgerPostgres) InitSchema() error {
	_, err := r.db.Exec(schema)
	return err
}

// RecordMove пишет move-строку. Вызывается только после того, как демон
// подтвердил перевод; tx_hash у move всегда NULL.
func (r *LedgerPostgres) RecordMove(from, to string, toAddress *string, amount decimal.Decimal, currency string) (models.Transaction, error) {
	var tx models.Transaction
	query := `
        INSERT INTO transactions (kind, from_account, to_account, to_address, amount, currency)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, kind, from_account, to_account, to_address, amount, currency,
                  tx_hash, confirmations, created_at, last_confirmation
    `
	err := r.db.Get(&tx, query, models.TxKindMove, from, to, toAddress, amount, currency)
	if err != nil {
		dest := to
		if toAddress != nil {
			dest = *toAddress
		}
		return tx, &LedgerWriteError{
			Kind:        models.TxKindMove,
			FromAccount: from,
			Destination: dest,
			Amount:      amount,
			Currency:    currency,
			Err:         err,
		}
	}
	return tx, nil
}

// RecordSendfrom пишет sendfrom-строку одной вставкой: подтверждения уже
// получены от демона, last_confirmation ставится, если их больше нуля.
func (r *LedgerPostgres) RecordSendfrom(from, toAddress string, amount decimal.Decimal, currency, txHash string, confirmations int64) (models.Transaction, error) {
	var tx models.Transaction
	query := `
        INSERT INTO transactions (kind, from_account, to_address, amount, currency, tx_hash,
                                  confirmations, last_confirmation)
        VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 > 0 THEN now() END)
        RETURNING id, kind, from_account, to_account, to_address, amount, currency,
                  tx_hash, confirmations, created_at, last_confirmation
    `
	err := r.db.Get(&tx, query, models.TxKindSendfrom, from, toAddress, amount, currency, txHash, confirmations)
	if err != nil {
		return tx, &LedgerWriteError{
			Kind:        models.TxKindSendfrom,
			FromAccount: from,
			Destination: toAddress,
			Amount:      amount,
			Currency:    currency,
			TxHash:      txHash,
			Err:         err,
		}
	}
	return tx, nil
}

// RefreshConfirmations — единственная мутация строк: обновляет подтверждения
// sendfrom-строки по хэшу.
func (r *LedgerPostgres) RefreshConfirmations(txHash string, confirmations int64) error {
	query := `
        UPDATE transactions
        SET confirmations = $1,
            last_confirmation = CASE WHEN $1 > 0 THEN now() ELSE last_confirmation END
        WHERE tx_hash = $2 AND kind = $3
    `
	res, err := r.db.Exec(query, confirmations, txHash, models.TxKindSendfrom)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrTxNotFound, "tx_hash %s", txHash)
	}
	return nil
}

func (r *LedgerPostgres) TransactionsByAccount(account string) ([]models.Transaction, error) {
	var txs []models.Transaction
	query := `
        SELECT id, kind, from_account, to_account, to_address, amount, currency,
               tx_hash, confirmations, created_at, last_confirmation
        FROM transactions
        WHERE from_account = $1 OR to_account = $1
        ORDER BY created_at DESC
    `
	err := r.db.Select(&txs, query, account)
	return txs, err
}
