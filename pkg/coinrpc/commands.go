package coinrpc

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"coinbridge_back/models"
)

// Обёртки над JSON-RPC командами демона. Суммы уходят числовым литералом
// через json.Number: float64 теряет точность после ~15 значащих цифр, а
// демон обязан получить ровно то, что записывается в ledger.

const minConfirmations = 1

func (c *Client) GetInfo() (models.DaemonInfo, error) {
	var info models.DaemonInfo
	err := c.Call("getinfo", &info)
	return info, err
}

func (c *Client) GetTransaction(txHash string) (models.WalletTx, error) {
	var tx models.WalletTx
	err := c.Call("gettransaction", &tx, txHash)
	return tx, err
}

// GetAccountAddress возвращает адрес аккаунта; если адреса ещё нет,
// демон создаёт новый.
func (c *Client) GetAccountAddress(account string) (string, error) {
	var address string
	err := c.Call("getaccountaddress", &address, account)
	return address, err
}

func (c *Client) GetBalance(account string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := c.Call("getbalance", &balance, account)
	return balance, err
}

func (c *Client) GetAddressesByAccount(account string) ([]string, error) {
	var addresses []string
	err := c.Call("getaddressesbyaccount", &addresses, account)
	return addresses, err
}

// ListAccounts возвращает аккаунты кошелька с балансами.
func (c *Client) ListAccounts() (map[string]decimal.Decimal, error) {
	accounts := map[string]decimal.Decimal{}
	err := c.Call("listaccounts", &accounts)
	return accounts, err
}

func (c *Client) ListTransactions(account string, count, startAt int) ([]models.ListedTx, error) {
	var txs []models.ListedTx
	err := c.Call("listtransactions", &txs, account, count, startAt)
	return txs, err
}

// Move — перевод между аккаунтами внутри кошелька, без комиссии.
// Несуществующий аккаунт-получатель демон создаёт сам.
func (c *Client) Move(from, to string, amount decimal.Decimal) error {
	var ok bool
	return c.Call("move", &ok, from, to, json.Number(amount.String()), minConfirmations)
}

// SendFrom — перевод в сеть с комиссией, возвращает хэш транзакции.
func (c *Client) SendFrom(from, toAddress string, amount decimal.Decimal) (string, error) {
	var txHash string
	err := c.Call("sendfrom", &txHash, from, toAddress, json.Number(amount.String()), minConfirmations)
	return txHash, err
}

func (c *Client) EncryptWallet() error {
	return c.Call("encryptwallet", nil, c.cfg.Passphrase)
}

func (c *Client) SignMessage(address, message string) (string, error) {
	var signature string
	err := c.Call("signmessage", &signature, address, message)
	return signature, err
}

func (c *Client) VerifyMessage(address, signature, message string) (bool, error) {
	var verified bool
	err := c.Call("verifymessage", &verified, address, signature, message)
	return verified, err
}

// walletPassphrase открывает окно подписи; passphrase только из конфига.
func (c *Client) walletPassphrase(timeoutSeconds int) error {
	return c.Call("walletpassphrase", nil, c.cfg.Passphrase, timeoutSeconds)
}

func (c *Client) walletLock() error {
	return c.Call("walletlock", nil)
}
