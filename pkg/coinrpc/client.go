package coinrpc

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Config — конфигурация одного демона (coins.<name> в config.yml).
// Секреты (RPCPassword, Passphrase) берутся из переменных окружения и
// никогда не попадают в логи и тексты ошибок.
type Config struct {
	Coin             string
	Ticker           string
	RPCURL           string
	RPCPort          string
	RPCPortTestnet   string
	RPCUser          string
	RPCPassword      string
	Passphrase       string
	TxFee            decimal.Decimal
	UnlockTimeout    int
	UseTestnet       bool
	AllowSelfPayment bool

	// Локальная base58check-проверка адреса перед sendfrom. Включается только
	// для монет с legacy-base58 адресами: bech32 и адреса других семейств
	// валидирует сам демон.
	ValidateAddresses bool

	// Переопределяются в тестах; нули означают значения по умолчанию.
	ConnectAttempts int
	RetryDelay      time.Duration
}

const (
	defaultConnectAttempts = 5
	defaultRetryDelay      = 5 * time.Second
)

// Client — JSON-RPC клиент демона. Состояние подключения общее для всех
// платежей по монете, поэтому переходы защищены mutex'ом (single writer).
type Client struct {
	cfg  Config
	http *resty.Client
	cb   *gobreaker.CircuitBreaker
	log  *logrus.Entry

	mu        sync.RWMutex
	connected bool
	endpoint  string

	// Окно walletpassphrase общее на весь кошелёк, поэтому unlock-сценарии
	// сериализуются одним mutex'ом на клиента.
	walletMu sync.Mutex
}

func NewClient(cfg Config) *Client {
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = defaultConnectAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	httpClient := resty.New().
		SetTimeout(30*time.Second).
		SetBasicAuth(cfg.RPCUser, cfg.RPCPassword)
	return &Client{
		cfg:  cfg,
		http: httpClient,
		cb:   newCircuitBreaker(cfg.Coin),
		log:  logrus.WithField("coin", cfg.Coin),
	}
}

func (c *Client) Config() Config { return c.cfg }

// newCircuitBreaker размыкается, когда набралось больше 10 запросов
// и не меньше 60% из них провалились.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > 10 && ratio >= 0.6
		},
	})
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(v bool, endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = v
	if endpoint != "" {
		c.endpoint = endpoint
	}
}

func (c *Client) currentEndpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// Connect строит endpoint по конфигу (порт зависит от сети) и проверяет
// демона запросом getinfo.
func (c *Client) Connect(testnet bool) error {
	port := c.cfg.RPCPort
	if testnet {
		port = c.cfg.RPCPortTestnet
	}
	endpoint := c.cfg.RPCURL + ":" + port
	c.setConnected(false, endpoint)

	var probe json.RawMessage
	if err := c.do("getinfo", &probe); err != nil {
		return err
	}
	c.setConnected(true, endpoint)
	c.log.Infof("RPC-подключение к демону установлено (%s)", endpoint)
	return nil
}

// EnsureConnected переподключается не больше ConnectAttempts раз с фиксированной
// паузой. После исчерпания попыток — ConnectionError (без секретов в тексте).
func (c *Client) EnsureConnected() error {
	if c.IsConnected() {
		return nil
	}
	var lastErr error
	for attempt := 1; attempt <= c.cfg.ConnectAttempts; attempt++ {
		if err := c.Connect(c.cfg.UseTestnet); err != nil {
			lastErr = err
			c.log.Warnf("попытка подключения %d/%d не удалась", attempt, c.cfg.ConnectAttempts)
			if attempt < c.cfg.ConnectAttempts {
				time.Sleep(c.cfg.RetryDelay)
			}
			continue
		}
		return nil
	}
	return &ConnectionError{
		Coin:     c.cfg.Coin,
		Endpoint: c.currentEndpoint(),
		Attempts: c.cfg.ConnectAttempts,
		Err:      lastErr,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Call выполняет JSON-RPC метод. Транспортная ошибка переводит клиента в
// Disconnected; ошибка уровня приложения возвращается как RPCCallError и
// состояние не трогает.
func (c *Client) Call(method string, result interface{}, params ...interface{}) error {
	if err := c.do(method, result, params...); err != nil {
		var rpcErr *RPCCallError
		if !errors.As(err, &rpcErr) {
			c.setConnected(false, "")
		}
		return err
	}
	return nil
}

func (c *Client) do(method string, result interface{}, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	req := rpcRequest{JSONRPC: "1.0", ID: "coinbridge", Method: method, Params: params}

	raw, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			Post(c.currentEndpoint())
		if err != nil {
			return nil, err
		}
		return resp.Body(), nil
	})
	if err != nil {
		return errors.Wrapf(err, "rpc %s: транспортная ошибка", method)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(raw.([]byte), &rpcResp); err != nil {
		return errors.Wrapf(err, "rpc %s: некорректный ответ демона", method)
	}
	if rpcResp.Error != nil {
		return &RPCCallError{Method: method, Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return errors.Wrapf(err, "rpc %s: не разобран result", method)
		}
	}
	return nil
}
