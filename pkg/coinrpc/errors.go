package coinrpc

import "fmt"

// ConnectionError — демон недоступен после всех попыток переподключения.
// В тексте только монета и endpoint, без rpc-пароля и passphrase.
type ConnectionError struct {
	Coin     string
	Endpoint string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("не удалось подключиться к демону %s (%s) за %d попыток, демон запущен?: %v",
		e.Coin, e.Endpoint, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RPCCallError — демон ответил ошибкой уровня приложения на конкретный метод.
type RPCCallError struct {
	Method  string
	Code    int
	Message string
}

func (e *RPCCallError) Error() string {
	return fmt.Sprintf("rpc %s: демон вернул ошибку %d: %s", e.Method, e.Code, e.Message)
}

// WalletUnlockError — не удалось разблокировать кошелёк, операция не выполнялась.
type WalletUnlockError struct {
	Err error
}

func (e *WalletUnlockError) Error() string {
	return fmt.Sprintf("кошелёк не разблокирован: %v", e.Err)
}

func (e *WalletUnlockError) Unwrap() error { return e.Err }
