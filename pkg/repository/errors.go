package repository

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTxNotFound — в ledger нет sendfrom-строки с таким хэшем.
var ErrTxNotFound = errors.New("транзакция не найдена в ledger")

// LedgerWriteError — демон уже перевёл средства, а запись в ledger не удалась.
// Самый тяжёлый класс ошибок: деньги ушли без долговременной записи. Несёт
// всё, что нужно для ручной сверки с историей транзакций демона.
type LedgerWriteError struct {
	Kind        string
	FromAccount string
	Destination string
	Amount      decimal.Decimal
	Currency    string
	TxHash      string
	Err         error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("запись в ledger не удалась (%s %s %s -> %s, hash=%q): %v",
		e.Kind, e.Amount, e.FromAccount, e.Destination, e.TxHash, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }
