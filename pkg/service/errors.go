package service

import (
	"errors"
	"fmt"
)

// InvalidAmountError — сумма не разбирается в decimal или после квантования
// не положительна. Отклоняется до любого сетевого вызова.
type InvalidAmountError struct {
	Input string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("сумма должна быть положительным числом: %q", e.Input)
}

// UnknownAccountError — отправитель не является аккаунтом кошелька.
// Раньше такой платёж молча возвращал пустой результат; теперь это
// явная ошибка.
type UnknownAccountError struct {
	Account string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("аккаунт %q демону неизвестен", e.Account)
}

// ErrSelfPayment — origin == destination при политике allow-self-payment=false.
var ErrSelfPayment = errors.New("платёж самому себе запрещён конфигурацией")
