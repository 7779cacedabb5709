package cache

import (
	"sync"
	"time"
)

// Кэш адресов по аккаунту: tier-2 маршрутизации нужен полный обход
// getaddressesbyaccount по всем аккаунтам (O(аккаунты × адреса)),
// кэш с TTL снимает эту нагрузку с демона.

type cachedAddresses struct {
	Addresses []string
	Timestamp time.Time
}

var (
	cached        = make(map[string]cachedAddresses)
	cacheDuration = 10 * time.Minute
	mu            sync.Mutex
)

// GetAddresses возвращает адреса аккаунта из кэша или false, если их нет или они устарели.
func GetAddresses(coin, account string) ([]string, bool) {
	mu.Lock()
	defer mu.Unlock()

	entry, ok := cached[coin+"/"+account]
	if !ok {
		return nil, false
	}
	if time.Since(entry.Timestamp) > cacheDuration {
		return nil, false
	}
	return entry.Addresses, true
}

// SetAddresses сохраняет адреса аккаунта в кэш.
func SetAddresses(coin, account string, addresses []string) {
	mu.Lock()
	defer mu.Unlock()

	cached[coin+"/"+account] = cachedAddresses{
		Addresses: addresses,
		Timestamp: time.Now(),
	}
}

// Invalidate сбрасывает кэш аккаунта; вызывается при создании нового адреса.
func Invalidate(coin, account string) {
	mu.Lock()
	defer mu.Unlock()
	delete(cached, coin+"/"+account)
}
