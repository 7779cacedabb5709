package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"coinbridge_back/internal/address"
	"coinbridge_back/models"
	"coinbridge_back/pkg/cache"
	"coinbridge_back/pkg/coinrpc"
	"coinbridge_back/pkg/money"
	"coinbridge_back/pkg/repository"
	"coinbridge_back/pkg/utils"
)

// BridgeService — платёжный маршрутизатор: выбирает самый дешёвый безопасный
// механизм перевода (move внутри кошелька, move на аккаунт-владелец адреса,
// sendfrom в сеть) и записывает результат в ledger.
type BridgeService struct {
	daemon CoinDaemon
	ledger repository.Ledger
	cfg    coinrpc.Config
	log    *logrus.Entry

	// канал сверки для LedgerWriteError; подменяется в тестах
	alert func(*repository.LedgerWriteError)
}

func NewBridgeService(ledger repository.Ledger, daemon CoinDaemon, cfg coinrpc.Config) *BridgeService {
	return &BridgeService{
		daemon: daemon,
		ledger: ledger,
		cfg:    cfg,
		log:    logrus.WithField("coin", cfg.Coin),
		alert:  utils.SendReconciliationAlertMailjet,
	}
}

// Payment переводит amount от origin к destination.
//
// Порядок жёсткий: квантование ровно один раз, до обращения к демону, чтобы
// в сеть и в ledger ушло одно и то же значение; затем подключение; затем
// три уровня маршрутизации. Ошибки демона наружу уходят типизированными,
// молчаливого пустого результата не бывает.
func (s *BridgeService) Payment(ctx context.Context, origin, destination, amountStr string) (models.PaymentResult, error) {
	var zero models.PaymentResult

	raw, err := decimal.NewFromString(amountStr)
	if err != nil {
		return zero, &InvalidAmountError{Input: amountStr}
	}
	amount := money.Quantize(s.cfg.Ticker, raw)
	if !amount.IsPositive() {
		return zero, &InvalidAmountError{Input: amountStr}
	}
	if origin == destination && !s.cfg.AllowSelfPayment {
		return zero, ErrSelfPayment
	}

	if err := s.daemon.EnsureConnected(); err != nil {
		return zero, err
	}

	accounts, err := s.daemon.ListAccounts()
	if err != nil {
		return zero, err
	}
	if _, ok := accounts[origin]; !ok {
		return zero, &UnknownAccountError{Account: origin}
	}

	// Уровень 1: оба — аккаунты одного кошелька, бесплатный move.
	// Платёж самому себе проходит здесь же вырожденным move.
	if _, ok := accounts[destination]; ok {
		return s.moveAndRecord(ctx, origin, destination, nil, amount)
	}

	// Уровень 2: destination — адрес, принадлежащий аккаунту этого же
	// кошелька. Обход всех аккаунтов; совпадение ищем по полному набору,
	// решение принимается явной проверкой после цикла.
	matched := ""
	for account := range accounts {
		addrs, err := s.addressesByAccount(account)
		if err != nil {
			return zero, err
		}
		for _, a := range addrs {
			if a == destination {
				matched = account
				break
			}
		}
		if matched != "" {
			break
		}
	}
	if matched != "" {
		return s.moveAndRecord(ctx, origin, matched, &destination, amount)
	}

	// Уровень 3: совпадений нет — вещаем в сеть через sendfrom.
	return s.sendfromAndRecord(ctx, origin, destination, amount)
}

func (s *BridgeService) moveAndRecord(ctx context.Context, origin, toAccount string, toAddress *string, amount decimal.Decimal) (models.PaymentResult, error) {
	var zero models.PaymentResult

	err := s.daemon.WithUnlockedWallet(ctx, s.cfg.UnlockTimeout, func(ctx context.Context) error {
		return s.daemon.Move(origin, toAccount, amount)
	})
	if err != nil {
		return zero, err
	}

	row, err := s.ledger.RecordMove(origin, toAccount, toAddress, amount, s.cfg.Ticker)
	if err != nil {
		return zero, s.surfaceLedgerFailure(err)
	}

	s.log.Infof("move %s: %s -> %s записан в ledger (id=%d)", amount, origin, toAccount, row.ID)
	return models.PaymentResult{
		Success:    true,
		Kind:       models.TxKindMove,
		Amount:     amount,
		FeeImplied: decimal.Zero,
		LedgerID:   row.ID,
	}, nil
}

func (s *BridgeService) sendfromAndRecord(ctx context.Context, origin, destination string, amount decimal.Decimal) (models.PaymentResult, error) {
	var zero models.PaymentResult

	// По умолчанию адрес валидирует демон при sendfrom: локальная проверка
	// знает только legacy-base58 и отбраковала бы bech32 и адреса других монет.
	if s.cfg.ValidateAddresses {
		if err := address.Validate(destination); err != nil {
			return zero, errors.Wrapf(err, "адрес назначения %q", destination)
		}
	}

	var txHash string
	err := s.daemon.WithUnlockedWallet(ctx, s.cfg.UnlockTimeout, func(ctx context.Context) error {
		h, err := s.daemon.SendFrom(origin, destination, amount)
		if err != nil {
			return err
		}
		txHash = h
		return nil
	})
	if err != nil {
		return zero, err
	}

	// Средства уже ушли: строка в ledger обязана появиться, даже если
	// обогащение подтверждениями не удалось.
	var confirmations int64
	if tx, err := s.daemon.GetTransaction(txHash); err != nil {
		s.log.Warnf("gettransaction %s не удался, подтверждения уточнит фоновая сверка: %v", txHash, err)
	} else {
		confirmations = tx.Confirmations
	}

	row, err := s.ledger.RecordSendfrom(origin, destination, amount, s.cfg.Ticker, txHash, confirmations)
	if err != nil {
		return zero, s.surfaceLedgerFailure(err)
	}

	s.log.Infof("sendfrom %s: %s -> %s, hash=%s, записан в ledger (id=%d)", amount, origin, destination, txHash, row.ID)
	return models.PaymentResult{
		Success:    true,
		Kind:       models.TxKindSendfrom,
		Amount:     amount,
		FeeImplied: s.cfg.TxFee,
		TxHash:     &txHash,
		LedgerID:   row.ID,
	}, nil
}

// surfaceLedgerFailure — перевод выполнен демоном, записи нет: логируем в
// канал сверки, шлём алерт и отдаём ошибку наверх отдельным типом.
func (s *BridgeService) surfaceLedgerFailure(err error) error {
	var lwe *repository.LedgerWriteError
	if errors.As(err, &lwe) {
		s.log.WithField("reconcile", true).Error(lwe.Error())
		s.alert(lwe)
	}
	return err
}

func (s *BridgeService) addressesByAccount(account string) ([]string, error) {
	if addrs, ok := cache.GetAddresses(s.cfg.Coin, account); ok {
		return addrs, nil
	}
	addrs, err := s.daemon.GetAddressesByAccount(account)
	if err != nil {
		return nil, err
	}
	cache.SetAddresses(s.cfg.Coin, account, addrs)
	return addrs, nil
}

// UpdateConfirmations перечитывает подтверждения по хэшу и обновляет
// sendfrom-строку — единственная разрешённая мутация ledger.
func (s *BridgeService) UpdateConfirmations(txHash string) (int64, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return 0, err
	}
	tx, err := s.daemon.GetTransaction(txHash)
	if err != nil {
		return 0, err
	}
	if err := s.ledger.RefreshConfirmations(txHash, tx.Confirmations); err != nil {
		return 0, errors.Wrapf(err, "обновление подтверждений %s", txHash)
	}
	return tx.Confirmations, nil
}

func (s *BridgeService) Balance(account string) (decimal.Decimal, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return decimal.Zero, err
	}
	return s.daemon.GetBalance(account)
}

// AccountAddress возвращает адрес аккаунта; демон может создать новый,
// поэтому кэш адресов аккаунта сбрасывается.
func (s *BridgeService) AccountAddress(account string) (string, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return "", err
	}
	addr, err := s.daemon.GetAccountAddress(account)
	if err != nil {
		return "", err
	}
	cache.Invalidate(s.cfg.Coin, account)
	return addr, nil
}

func (s *BridgeService) Info() (models.DaemonInfo, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return models.DaemonInfo{}, err
	}
	return s.daemon.GetInfo()
}

func (s *BridgeService) LedgerTransactions(account string) ([]models.Transaction, error) {
	return s.ledger.TransactionsByAccount(account)
}

func (s *BridgeService) DaemonTransactions(account string, count, startAt int) ([]models.ListedTx, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return nil, err
	}
	return s.daemon.ListTransactions(account, count, startAt)
}

func (s *BridgeService) SignMessage(addr, message string) (string, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return "", err
	}
	return s.daemon.SignMessage(addr, message)
}

func (s *BridgeService) VerifyMessage(addr, signature, message string) (bool, error) {
	if err := s.daemon.EnsureConnected(); err != nil {
		return false, err
	}
	return s.daemon.VerifyMessage(addr, signature, message)
}

// EncryptWallet — разовая административная операция, passphrase из конфига.
func (s *BridgeService) EncryptWallet() error {
	if err := s.daemon.EnsureConnected(); err != nil {
		return err
	}
	return s.daemon.EncryptWallet()
}
