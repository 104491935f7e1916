// Package denom converts between human-readable EGLD amounts and their wei
// (smallest unit) representation. All arithmetic runs on big.Int — never
// floats — so 18-decimal fixed point stays exact.
package denom

import (
	"errors"
	"math/big"
	"strings"
)

const Decimals = 18

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

var (
	ErrInvalidAmount   = errors.New("invalid EGLD amount format")
	ErrTooManyDecimals = errors.New("too many decimal places (max 18)")
	ErrNegativeAmount  = errors.New("amount must be positive")
)

// EgldToWei converts a decimal EGLD string into its integer wei string.
// An empty input converts to "0"; callers decide whether zero is acceptable.
func EgldToWei(amount string) (string, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return "0", nil
	}
	if strings.HasPrefix(trimmed, "-") {
		return "", ErrNegativeAmount
	}

	wholePart, fractionPart, _ := strings.Cut(trimmed, ".")
	if wholePart == "" {
		wholePart = "0"
	}
	if !isDigits(wholePart) || (fractionPart != "" && !isDigits(fractionPart)) {
		return "", ErrInvalidAmount
	}
	if len(fractionPart) > Decimals {
		return "", ErrTooManyDecimals
	}

	whole, ok := new(big.Int).SetString(wholePart, 10)
	if !ok {
		return "", ErrInvalidAmount
	}
	wei := new(big.Int).Mul(whole, unit)

	if fractionPart != "" {
		padded := fractionPart + strings.Repeat("0", Decimals-len(fractionPart))
		fraction, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return "", ErrInvalidAmount
		}
		wei.Add(wei, fraction)
	}

	return wei.String(), nil
}

// WeiToEgld renders a wei string as a decimal EGLD amount, truncated to the
// given precision. Malformed input renders as "0" — this is a display
// helper, not a validator.
func WeiToEgld(wei string, precision int) string {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(wei), 10)
	if !ok || amount.Sign() < 0 {
		return "0"
	}

	whole, frac := new(big.Int), new(big.Int)
	whole.QuoRem(amount, unit, frac)

	fraction := frac.String()
	if pad := Decimals - len(fraction); pad > 0 {
		fraction = strings.Repeat("0", pad) + fraction
	}
	if precision < 0 {
		precision = 0
	}
	if precision < len(fraction) {
		fraction = fraction[:precision]
	}
	fraction = strings.TrimRight(fraction, "0")

	if fraction == "" {
		return whole.String()
	}
	return whole.String() + "." + fraction
}

// ShortAddress elides the middle of a bech32 address for logs and payloads.
func ShortAddress(address string) string {
	if len(address) <= 14 {
		return address
	}
	return address[:8] + "..." + address[len(address)-6:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
