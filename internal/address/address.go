package address

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
)

var ErrInvalidAddress = errors.New("адрес не прошёл base58check")

// Validate проверяет base58check-адрес (версия + payload + 4 байта чексумы,
// double SHA256). Годится только для legacy-base58 монет и поэтому включается
// отдельным флагом конфига: bech32 и прочие семейства остаются демону.
func Validate(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return ErrInvalidAddress
	}
	if len(raw) < 5 {
		return ErrInvalidAddress
	}
	payload, checksum := raw[:len(raw)-4], raw[len(raw)-4:]

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(second[:4], checksum) {
		return ErrInvalidAddress
	}
	return nil
}
