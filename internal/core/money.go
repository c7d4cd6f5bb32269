// Package core holds the expense domain: records, categories, money amounts,
// filters, pages and summaries.
//
// This file contains money parsing and conversion. Amounts are kept in integer
// cents so that sums over any partition of records are exact.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ParseMoney converts a decimal string to Money with half-up rounding on the
// third decimal place.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Zero and negative
// amounts parse successfully; rejecting them is the job of validation.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12,34")  -> 1234 cents
//	ParseMoney("12.345") -> 1235 cents
//	ParseMoney("12.344") -> 1234 cents
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return Money{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Money{Cents: cents.IntPart()}, nil
}

// MoneyFromCents wraps a cent amount.
func MoneyFromCents(cents int64) Money { return Money{Cents: cents} }

func (m Money) IsPositive() bool { return m.Cents > 0 }

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Decimal returns the exact amount in currency units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.Cents, -2) }

// Float64 returns the amount in currency units for JSON output.
// Use Cents for arithmetic.
func (m Money) Float64() float64 { return m.Decimal().InexactFloat64() }

func (m Money) String() string { return m.Decimal().StringFixed(2) }

// Percentage returns part as a percentage of whole rounded to one decimal
// place. It is 0 when whole is zero.
func Percentage(part, whole Money) float64 {
	if whole.Cents == 0 {
		return 0
	}
	p := decimal.NewFromInt(part.Cents).
		Div(decimal.NewFromInt(whole.Cents)).
		Mul(hundred).
		Round(1)
	return p.InexactFloat64()
}
