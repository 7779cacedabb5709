package coinrpc

import "context"

// WithUnlockedWallet разблокирует кошелёк на timeoutSeconds, выполняет body
// и гарантированно блокирует кошелёк обратно на любом пути выхода, включая
// ошибку body и отмену контекста. Если сама разблокировка не удалась, body
// не запускается, блокировка всё равно выполняется защитно.
func (c *Client) WithUnlockedWallet(ctx context.Context, timeoutSeconds int, body func(ctx context.Context) error) error {
	c.walletMu.Lock()
	defer c.walletMu.Unlock()

	if timeoutSeconds <= 0 {
		timeoutSeconds = c.cfg.UnlockTimeout
	}
	if err := c.walletPassphrase(timeoutSeconds); err != nil {
		if lockErr := c.walletLock(); lockErr != nil {
			c.log.Warnf("защитный walletlock после неудачного unlock: %v", lockErr)
		}
		return &WalletUnlockError{Err: err}
	}
	defer func() {
		if lockErr := c.walletLock(); lockErr != nil {
			c.log.Errorf("walletlock не выполнен, окно подписи может остаться открытым: %v", lockErr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return body(ctx)
}
