package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Точность валют в знаках после запятой. Всё, что не перечислено, — 8 знаков.
var decimalsByTicker = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"NXT": 2,
	"XRP": 6,
}

const defaultDecimals int32 = 8

// Decimals возвращает точность тикера.
func Decimals(ticker string) int32 {
	if d, ok := decimalsByTicker[strings.ToUpper(ticker)]; ok {
		return d
	}
	return defaultDecimals
}

// Quantize приводит сумму к точности валюты банковским округлением
// (round-half-to-even). Вызывается ровно один раз на платёж, до обращения
// к демону, чтобы в сеть и в ledger ушло одно и то же значение.
func Quantize(ticker string, amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(Decimals(ticker))
}

// Quantum — минимальная представимая единица валюты (10^-decimals).
func Quantum(ticker string) decimal.Decimal {
	return decimal.New(1, -Decimals(ticker))
}
