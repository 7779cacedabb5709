package coinrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDaemon — минимальный JSON-RPC демон для тестов: пишет историю методов
// и отвечает заготовленными result/error по имени метода.
type stubDaemon struct {
	srv *httptest.Server

	mu      sync.Mutex
	calls   []string
	bodies  []string // сырые тела запросов, параллельно calls
	results map[string]interface{}
	errors  map[string]*rpcError
	broken  bool // отдавать мусор вместо JSON
}

func newStubDaemon(t *testing.T) *stubDaemon {
	t.Helper()
	d := &stubDaemon{
		results: map[string]interface{}{"getinfo": map[string]interface{}{"version": 1}},
		errors:  map[string]*rpcError{},
	}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		d.mu.Lock()
		d.calls = append(d.calls, req.Method)
		d.bodies = append(d.bodies, string(body))
		broken := d.broken
		rpcErr := d.errors[req.Method]
		result := d.results[req.Method]
		d.mu.Unlock()

		if broken {
			fmt.Fprint(w, "not json at all")
			return
		}
		resp := map[string]interface{}{"result": result, "error": rpcErr, "id": req.ID}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *stubDaemon) setBroken(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broken = v
}

func (d *stubDaemon) setError(method string, code int, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors[method] = &rpcError{Code: code, Message: message}
}

func (d *stubDaemon) setResult(method string, result interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[method] = result
}

func (d *stubDaemon) lastBody(method string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.calls) - 1; i >= 0; i-- {
		if d.calls[i] == method {
			return d.bodies[i]
		}
	}
	return ""
}

func (d *stubDaemon) callCount(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, m := range d.calls {
		if m == method {
			n++
		}
	}
	return n
}

func (d *stubDaemon) config() Config {
	u, _ := url.Parse(d.srv.URL)
	return Config{
		Coin:            "bitcoin",
		Ticker:          "BTC",
		RPCURL:          u.Scheme + "://" + u.Hostname(),
		RPCPort:         u.Port(),
		RPCPortTestnet:  u.Port(),
		RPCUser:         "rpcuser",
		RPCPassword:     "hunter2secret",
		Passphrase:      "walletsecretphrase",
		UnlockTimeout:   30,
		ConnectAttempts: 5,
		RetryDelay:      time.Millisecond,
	}
}

func TestEnsureConnectedStopsAfterFiveAttempts(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setBroken(true)

	client := NewClient(daemon.config())
	err := client.EnsureConnected()
	require.Error(t, err)

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, 5, connErr.Attempts)
	assert.Equal(t, 5, daemon.callCount("getinfo"), "шестой попытки быть не должно")
	assert.False(t, client.IsConnected())
}

func TestConnectionErrorRedactsSecrets(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setBroken(true)

	cfg := daemon.config()
	client := NewClient(cfg)
	err := client.EnsureConnected()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), cfg.RPCPassword)
	assert.NotContains(t, err.Error(), cfg.Passphrase)
}

func TestCallDemotesConnectionOnTransportFailure(t *testing.T) {
	daemon := newStubDaemon(t)
	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())
	require.True(t, client.IsConnected())

	daemon.srv.Close()
	_, err := client.GetInfo()
	require.Error(t, err)
	assert.False(t, client.IsConnected())
}

func TestCallKeepsConnectionOnRPCError(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setError("sendfrom", -6, "Insufficient funds")

	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	_, err := client.SendFrom("alice", "mkHS9ne12qx9pS9VojpwU5xtRd4T7X7ZUt", decimal.RequireFromString("0.01"))
	require.Error(t, err)

	var rpcErr *RPCCallError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "sendfrom", rpcErr.Method)
	assert.Equal(t, -6, rpcErr.Code)
	assert.True(t, client.IsConnected(), "прикладная ошибка не должна разрывать подключение")
}

func TestWithUnlockedWalletAlwaysLocks(t *testing.T) {
	daemon := newStubDaemon(t)
	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	bodyErr := errors.New("body failed")
	err := client.WithUnlockedWallet(context.Background(), 10, func(ctx context.Context) error {
		return bodyErr
	})
	require.ErrorIs(t, err, bodyErr)
	assert.Equal(t, 1, daemon.callCount("walletpassphrase"))
	assert.Equal(t, 1, daemon.callCount("walletlock"))
}

func TestWithUnlockedWalletUnlockFailure(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setError("walletpassphrase", -14, "wallet passphrase incorrect")

	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	bodyRan := false
	err := client.WithUnlockedWallet(context.Background(), 10, func(ctx context.Context) error {
		bodyRan = true
		return nil
	})
	require.Error(t, err)

	var unlockErr *WalletUnlockError
	require.True(t, errors.As(err, &unlockErr))
	assert.False(t, bodyRan, "тело не должно выполняться без разблокировки")
	assert.Equal(t, 1, daemon.callCount("walletlock"), "защитный walletlock обязателен")
}

func TestWithUnlockedWalletCancelledContext(t *testing.T) {
	daemon := newStubDaemon(t)
	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.WithUnlockedWallet(ctx, 10, func(ctx context.Context) error {
		t.Fatal("тело не должно запускаться с отменённым контекстом")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, daemon.callCount("walletlock"))
}

func TestAmountsSentAsExactLiterals(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setResult("move", true)
	daemon.setResult("sendfrom", "deadbeef")

	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	// 23 значащих цифры — float64 такую сумму уже исказил бы
	amount := decimal.RequireFromString("123456789012345.67890123")

	require.NoError(t, client.Move("alice", "bob", amount))
	assert.Contains(t, daemon.lastBody("move"), "123456789012345.67890123")

	_, err := client.SendFrom("alice", "mkHS9ne12qx9pS9VojpwU5xtRd4T7X7ZUt", amount)
	require.NoError(t, err)
	body := daemon.lastBody("sendfrom")
	assert.Contains(t, body, "123456789012345.67890123")
	assert.NotContains(t, body, `"123456789012345.67890123"`, "сумма — числовой литерал, не строка")
}

func TestCommandWrappers(t *testing.T) {
	daemon := newStubDaemon(t)
	daemon.setResult("listaccounts", map[string]float64{"alice": 1.5, "bob": 0})
	daemon.setResult("getaddressesbyaccount", []string{"mkHS9ne12qx9pS9VojpwU5xtRd4T7X7ZUt"})
	daemon.setResult("getbalance", 1.5)
	daemon.setResult("gettransaction", map[string]interface{}{"txid": "abc123", "confirmations": 3})

	client := NewClient(daemon.config())
	require.NoError(t, client.EnsureConnected())

	accounts, err := client.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Contains(t, accounts, "alice")

	addrs, err := client.GetAddressesByAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"mkHS9ne12qx9pS9VojpwU5xtRd4T7X7ZUt"}, addrs)

	balance, err := client.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("1.5")))

	tx, err := client.GetTransaction("abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tx.Confirmations)
}
