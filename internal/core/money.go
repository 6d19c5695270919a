// Package core holds the expense domain: money handling, amount extraction
// and keyword categorization.
package core

import (
	"math"
	"strings"
)

// parseCents converts an unsigned decimal string (digits with an optional
// fractional part, dot separator) to cents, half-up rounding on the third
// decimal place. Zero is accepted here; Money.Validate rejects it later.
func parseCents(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidAmount
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	for i := 0; i < len(intPart); i++ {
		if intPart[i] < '0' || intPart[i] > '9' {
			return 0, ErrInvalidAmount
		}
	}
	for i := 0; i < len(fracPart); i++ {
		if fracPart[i] < '0' || fracPart[i] > '9' {
			return 0, ErrInvalidAmount
		}
	}

	const maxSafe = (1<<63 - 1) / 100
	var iv int64
	for i := 0; i < len(intPart); i++ {
		iv = iv*10 + int64(intPart[i]-'0')
		if iv > maxSafe {
			return 0, ErrInvalidAmount
		}
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// MoneyFromDollars converts a dollar amount to Money, rounding half-up to
// the nearest cent.
func MoneyFromDollars(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// Dollars returns the dollar value for serialization and display. Use cents
// for arithmetic.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}
