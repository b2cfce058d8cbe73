// Package core holds the transaction domain types shared by every stage.
//
// Amounts are kept as signed integer cents so that sums and maxima stay
// exact; only derived averages need a rounding step, and that rule is
// explicit (half away from zero) rather than inherited from float
// formatting defaults.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a raw decimal string to Money. It accepts both dot
// (12.34) and comma (12,34) decimal separators and an optional leading
// sign, and performs half-up rounding on the third decimal place.
// Returns ErrMalformedAmount (wrapped) for anything else.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrMalformedAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return Money{}, ErrMalformedAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrMalformedAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// "." alone is not a number
		return Money{}, ErrMalformedAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrMalformedAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrMalformedAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrMalformedAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrMalformedAmount
	}

	// Take the first two fractional digits; half-up on the third.
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

	cents := iv*100 + fracCents
	if negative {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// DivideRound returns the amount divided by n, rounded half away from
// zero to whole cents. Used to derive per-group averages.
func (m Money) DivideRound(n int64) Money {
	if n == 0 {
		return Money{}
	}
	q := m.Cents / n
	r := m.Cents % n
	if r != 0 {
		// Compare twice the remainder against the divisor to decide
		// whether the half boundary was reached.
		doubled := 2 * r
		if doubled < 0 {
			doubled = -doubled
		}
		div := n
		if div < 0 {
			div = -div
		}
		if doubled >= div {
			if (m.Cents < 0) != (n < 0) {
				q--
			} else {
				q++
			}
		}
	}
	return Money{Cents: q}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Less reports whether m is strictly smaller than other.
func (m Money) Less(other Money) bool {
	return m.Cents < other.Cents
}

// String renders the amount with exactly two decimal places, e.g.
// "-12.05" or "340.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
